// Package catalog loads starting inventory from CUE files.
//
// A catalog is a CUE value with a top-level items list:
//
//	items: [
//		{name: "+5 Dexterity Vest", sell_in: 10, quality: 20},
//		{name: "Aged Brie", sell_in: 2, quality: 0},
//	]
//
// Catalogs are unified with an embedded schema, so a missing field or a
// non-integer sell_in is reported with its source position. Quality is not
// range-checked: out-of-range values are accepted and left for the first
// tick to clamp. Names are NFC-normalized before classification.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/gildedrose/internal/item"
)

//go:embed schema.cue
var schemaCUE string

// Error codes reported by LoadError.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeSchema      = "E101" // Catalog does not match the item schema
	ErrCodeNoItems     = "E102" // items list missing
)

// LoadError describes why a catalog could not be loaded.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Load reads a catalog from a single .cue file or a directory of them.
func Load(path string) ([]item.Item, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("catalog not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing catalog: %v", err)}
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	return LoadFile(path)
}

// LoadFile reads a catalog from one CUE file.
func LoadFile(path string) ([]item.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("failed to read catalog file: %v", err)}
	}

	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, wrapCUEError(ErrCodeBuildFailed, err)
	}
	return compile(ctx, value)
}

// LoadDir reads a catalog from every CUE file in a directory.
// The files must form a single CUE package.
func LoadDir(dir string) ([]item.Item, error) {
	files, err := FindCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, wrapCUEError(ErrCodeBuildFailed, err)
	}
	return compile(ctx, value)
}

// Parse reads a catalog from CUE source held in memory.
func Parse(filename string, src []byte) ([]item.Item, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(src, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, wrapCUEError(ErrCodeBuildFailed, err)
	}
	return compile(ctx, value)
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// compile checks value against the item schema and extracts the items.
func compile(ctx *cue.Context, value cue.Value) ([]item.Item, error) {
	if !value.LookupPath(cue.ParsePath("items")).Exists() {
		return nil, &LoadError{Code: ErrCodeNoItems, Message: "catalog has no items list", Pos: value.Pos()}
	}

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, wrapCUEError(ErrCodeGeneric, err)
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, wrapCUEError(ErrCodeSchema, err)
	}

	iter, err := unified.LookupPath(cue.ParsePath("items")).List()
	if err != nil {
		return nil, wrapCUEError(ErrCodeSchema, err)
	}

	items := []item.Item{}
	for iter.Next() {
		it, err := compileItem(iter.Value())
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

func compileItem(v cue.Value) (item.Item, error) {
	name, err := v.LookupPath(cue.ParsePath("name")).String()
	if err != nil {
		return item.Item{}, wrapCUEError(ErrCodeSchema, err)
	}
	sellIn, err := v.LookupPath(cue.ParsePath("sell_in")).Int64()
	if err != nil {
		return item.Item{}, wrapCUEError(ErrCodeSchema, err)
	}
	quality, err := v.LookupPath(cue.ParsePath("quality")).Int64()
	if err != nil {
		return item.Item{}, wrapCUEError(ErrCodeSchema, err)
	}

	return item.New(norm.NFC.String(name), int(sellIn), int(quality)), nil
}

// wrapCUEError keeps the first CUE error and its position.
func wrapCUEError(code string, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return err
	}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}

	first := errs[0]
	loadErr = &LoadError{Code: code, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		loadErr.Pos = positions[0]
	}
	return loadErr
}
