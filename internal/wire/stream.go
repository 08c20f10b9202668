package wire

import (
	"bufio"
	"io"
	"strings"

	"pydex/internal/model"
)

// DumpStream writes one JSON document per module to w, each terminated by a
// single newline.
func DumpStream(w io.Writer, modules []*model.Module) error {
	for _, module := range modules {
		data, err := Dump(module)
		if err != nil {
			return err
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// LoadStream reads newline-delimited JSON documents from r, one module per
// line. Blank lines are skipped.
func LoadStream(r io.Reader) ([]*model.Module, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var modules []*model.Module
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		module, err := Load([]byte(line))
		if err != nil {
			return nil, err
		}
		modules = append(modules, module)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return modules, nil
}
