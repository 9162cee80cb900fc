package dynadapter_test

import (
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Cada arquivo do módulo precisa abrir com uma única cláusula package e o
// pacote de cada diretório precisa ser o mesmo (fora o sufixo _test).
func TestSourceFilesParse(t *testing.T) {
	t.Parallel()

	pkgs := map[string]string{}
	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != "." && (strings.HasPrefix(d.Name(), "_") || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}

		file, err := parser.ParseFile(token.NewFileSet(), path, nil, parser.ParseComments)
		if !assert.NoError(t, err, path) {
			return nil
		}

		name := strings.TrimSuffix(file.Name.Name, "_test")
		dir := filepath.Dir(path)
		if prev, ok := pkgs[dir]; ok {
			assert.Equal(t, prev, name, path)
		} else {
			pkgs[dir] = name
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "dynadapter", pkgs["."])
	assert.Equal(t, "storage", pkgs["storage"])
}
