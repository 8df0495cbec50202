package output

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Document is anything that can write itself to a path.
type Document interface {
	Save(path string) error
}

type SavedFile struct {
	Name string
	Path string
	Size int64
	Type string
}

func (f SavedFile) HumanSize() string {
	return HumanSize(f.Size)
}

// Save writes doc as <book>_<name>.docx into the sub-directory matching name.
func (l *Layout) Save(name string, doc Document) (SavedFile, error) {
	sub := subdirFor(name)
	file := fmt.Sprintf("%s_%s.docx", l.Book, name)
	path := filepath.Join(l.Dir, sub, file)
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return SavedFile{}, err
	}
	if err := doc.Save(path); err != nil {
		return SavedFile{}, fmt.Errorf("falha ao salvar arquivo %s: %w", file, err)
	}
	st, err := os.Stat(path)
	if err != nil {
		return SavedFile{}, fmt.Errorf("falha ao ler arquivo salvo %s: %w", file, err)
	}
	typ := sub
	if typ == "" {
		typ = "other"
	}
	return SavedFile{Name: file, Path: path, Size: st.Size(), Type: typ}, nil
}

// Zip archives the run folder next to it as <dir>.zip.
func (l *Layout) Zip() (string, error) {
	target := l.Dir + ".zip"
	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("falha ao criar arquivo zip: %w", err)
	}
	zw := zip.NewWriter(f)
	walkErr := filepath.WalkDir(l.Dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(l.Dir, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(w, src)
		return err
	})
	closeErr := zw.Close()
	if err := f.Close(); err != nil && closeErr == nil {
		closeErr = err
	}
	if walkErr != nil {
		return "", fmt.Errorf("falha ao compactar saída: %w", walkErr)
	}
	if closeErr != nil {
		return "", fmt.Errorf("falha ao finalizar arquivo zip: %w", closeErr)
	}
	return target, nil
}

func HumanSize(n int64) string {
	size := float64(n)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.1f TB", size)
}
