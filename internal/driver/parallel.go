package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"cgull/internal/source"
)

// listSourceFiles возвращает отсортированный список всех *.cgull файлов
func listSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".cgull") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// CompileDir compiles every .cgull file under dir, one worker per core.
// Each file is an independent program and emits into its own subdirectory
// of OutputDir named after the file stem. Results come back in path order.
func CompileDir(ctx context.Context, dir string, opts Options) ([]*Unit, error) {
	files, err := listSourceFiles(dir)
	if err != nil {
		return nil, err
	}

	units := make([]*Unit, len(files))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.NumCPU())

	for i, path := range files {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			// каждый файл получает собственный FileSet: компиляции не
			// разделяют состояние между горутинами
			fileOpts := opts
			if opts.OutputDir != "" {
				stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				fileOpts.OutputDir = filepath.Join(opts.OutputDir, stem)
			}
			unit, err := Compile(source.NewFileSet(), path, fileOpts)
			if err != nil {
				return err
			}
			units[i] = unit
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return units, nil
}
