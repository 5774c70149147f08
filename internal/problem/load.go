package problem

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/trilogic/internal/answerspec"
	"github.com/abhisek/trilogic/internal/validate"
)

//go:embed bank/*.json
var seedBank embed.FS

// Default returns the built-in problem bank.
func Default() (*Bank, error) {
	return loadFS(seedBank, "bank")
}

// Load reads problems from a JSON file or from every *.json file in a
// directory. A file holds either one problem object or an array of them.
func Load(p string) (*Bank, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("load problems: %w", err)
	}
	if info.IsDir() {
		return loadFS(os.DirFS(p), ".")
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("load problems: %w", err)
	}
	problems, err := Decode(filepath.Base(p), data)
	if err != nil {
		return nil, err
	}
	return NewBank(problems)
}

// LoadOrDefault loads from p when it is set and falls back to the
// built-in bank otherwise.
func LoadOrDefault(p string) (*Bank, error) {
	if p == "" {
		return Default()
	}
	return Load(p)
}

func loadFS(fsys fs.FS, dir string) (*Bank, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("load problems: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var all []*Problem
	for _, name := range names {
		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		problems, err := Decode(name, data)
		if err != nil {
			return nil, err
		}
		all = append(all, problems...)
	}
	return NewBank(all)
}

// Decode parses one problem file. source names the file in errors.
func Decode(source string, data []byte) ([]*Problem, error) {
	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, &ValidationError{Source: source, Err: err}
	}

	var raws []json.RawMessage
	var values []any
	switch t := v.(type) {
	case []any:
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, &ValidationError{Source: source, Err: err}
		}
		values = t
	default:
		raws = []json.RawMessage{data}
		values = []any{t}
	}

	out := make([]*Problem, 0, len(raws))
	for i, raw := range raws {
		src := source
		if len(raws) > 1 {
			src = fmt.Sprintf("%s[%d]", source, i)
		}
		if err := validateDocument(values[i]); err != nil {
			return nil, &ValidationError{Source: src, Err: err}
		}
		p, err := decodeOne(src, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func decodeOne(source string, raw json.RawMessage) (*Problem, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ValidationError{Source: source, Err: err}
	}
	spec, err := answerspec.Parse(doc.Answer)
	if err != nil {
		return nil, &ValidationError{Source: source, Err: err}
	}
	mode := doc.Mode
	if mode == "" {
		mode = validate.ModeFiveStep
	}
	p := &Problem{
		ID:       doc.ID,
		Title:    doc.Title,
		Argument: doc.Argument,
		Mode:     mode,
		Options:  doc.Options,
		Tags:     doc.Tags,
		Spec:     spec,
		Source:   source,
	}
	if errs := check(p); len(errs) > 0 {
		return nil, &ValidationError{Source: source, Problems: errs}
	}
	return p, nil
}
