package output

import (
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Sub-directories of a run folder.
const (
	DirComplete  = "completo"
	DirQuestions = "questoes"
	DirAnswers   = "gabaritos"
)

const timestampLayout = "20060102_150405"

func EnsureDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("diretório de saída vazio")
	}
	return os.MkdirAll(dir, 0o755)
}

// SanitizeName replaces characters that are invalid in file names.
func SanitizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`<>:"/\|?*`, r) || r < 0x20 {
			return '_'
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if name == "" {
		return "documento"
	}
	return name
}

// Layout is the output folder of one processed document.
type Layout struct {
	Book string
	Dir  string
}

// NewLayout creates <base>/<book>_<timestamp> with its sub-directories. When
// the folder already exists a random suffix is appended.
func NewLayout(base, book string, now time.Time, randSrc io.Reader) (*Layout, error) {
	if err := EnsureDir(base); err != nil {
		return nil, err
	}
	if randSrc == nil {
		randSrc = rand.Reader
	}
	book = SanitizeName(book)
	name := book + "_" + now.Format(timestampLayout)
	dir := filepath.Join(base, name)
	for i := 0; exists(dir); i++ {
		if i >= 1000 {
			return nil, fmt.Errorf("não foi possível gerar uma pasta de saída sem conflito")
		}
		id, err := randomID(4, randSrc)
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, name+"_"+id)
	}
	for _, sub := range []string{DirComplete, DirQuestions, DirAnswers} {
		if err := EnsureDir(filepath.Join(dir, sub)); err != nil {
			return nil, fmt.Errorf("falha ao criar pasta de saída: %w", err)
		}
	}
	return &Layout{Book: book, Dir: dir}, nil
}

// subdirFor picks the sub-directory from the document name.
func subdirFor(name string) string {
	switch {
	case strings.Contains(name, "completo"):
		return DirComplete
	case strings.Contains(name, "questoes"):
		return DirQuestions
	case strings.Contains(name, "gabarito"):
		return DirAnswers
	}
	return ""
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func randomID(n int, randSrc io.Reader) (string, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(randSrc, buf); err != nil {
		return "", fmt.Errorf("falha ao ler bytes aleatórios: %w", err)
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(out), nil
}
