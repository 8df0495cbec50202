package discovery

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var zipMagic = []byte("PK\x03\x04")

type Result struct {
	Files    []string
	Warnings []string
}

// Discover resolves files and directories to the .docx documents to process.
// Directories are walked recursively; hidden directories and Word lock files
// (~$*.docx) are skipped.
func Discover(inputs []string) (Result, error) {
	if len(inputs) == 0 {
		return Result{}, fmt.Errorf("nenhum caminho de entrada informado")
	}
	set := map[string]struct{}{}
	warnings := []string{}

	for _, in := range inputs {
		if strings.TrimSpace(in) == "" {
			continue
		}
		st, err := os.Stat(in)
		if err != nil {
			return Result{}, fmt.Errorf("caminho de entrada inválido (%s): %w", in, err)
		}
		if st.IsDir() {
			found, warns, err := scanDir(in)
			if err != nil {
				return Result{}, err
			}
			warnings = append(warnings, warns...)
			for _, p := range found {
				set[p] = struct{}{}
			}
			continue
		}

		if !isDocxName(in) {
			return Result{}, fmt.Errorf("arquivo não é um documento .docx: %s", in)
		}
		ok, err := looksLikeZip(in)
		if err != nil {
			return Result{}, fmt.Errorf("falha ao ler arquivo (%s): %w", in, err)
		}
		if !ok {
			return Result{}, fmt.Errorf("arquivo .docx inválido ou corrompido: %s", in)
		}
		set[in] = struct{}{}
	}

	files := make([]string, 0, len(set))
	for p := range set {
		files = append(files, p)
	}
	sort.Strings(files)
	if len(files) == 0 {
		return Result{}, fmt.Errorf("nenhum documento .docx encontrado")
	}
	return Result{Files: files, Warnings: warnings}, nil
}

func scanDir(root string) ([]string, []string, error) {
	out := []string{}
	warnings := []string{}

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !isDocxName(path) {
			return nil
		}
		ok, readErr := looksLikeZip(path)
		if readErr != nil {
			warnings = append(warnings, fmt.Sprintf("falha na leitura, ignorado: %s", path))
			return nil
		}
		if !ok {
			warnings = append(warnings, fmt.Sprintf("não é um .docx válido, ignorado: %s", path))
			return nil
		}
		out = append(out, path)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("falha ao varrer diretório (%s): %w", root, err)
	}
	return out, warnings, nil
}

func isDocxName(path string) bool {
	name := filepath.Base(path)
	return strings.EqualFold(filepath.Ext(name), ".docx") && !strings.HasPrefix(name, "~$")
}

func looksLikeZip(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	head := make([]byte, len(zipMagic))
	if _, err := io.ReadFull(f, head); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return false, nil
		}
		return false, err
	}
	return bytes.Equal(head, zipMagic), nil
}
