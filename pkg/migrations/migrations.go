package migrations

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"
	"strings"

	"github.com/go-faster/errors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
)

// Run applies every embedded migration FS in registration order. Goose keeps
// its version table per database, so re-running on boot is a no-op.
func Run(ctx context.Context, dsn string, logger *logrus.Logger, filesystems ...*embed.FS) error {
	if len(filesystems) == 0 {
		return nil
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return errors.Wrap(err, "open database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.WithError(err).Warn("migrations: failed to close database handle")
		}
	}()

	goose.SetLogger(gooseLogger{logger})
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "set goose dialect")
	}

	for _, fsys := range filesystems {
		dir, name, err := migrationDir(fsys)
		if err != nil {
			return err
		}
		// Each module numbers its migrations from 1, so every FS gets its
		// own version table.
		goose.SetTableName("goose_db_version_" + name)
		goose.SetBaseFS(fsys)
		if err := goose.UpContext(ctx, db, dir); err != nil {
			return errors.Wrap(err, "apply migrations")
		}
	}
	goose.SetBaseFS(nil)
	goose.SetTableName("goose_db_version")
	return nil
}

// migrationDir finds the directory containing .sql files, so modules can
// embed schema under arbitrary prefixes (infrastructure/persistence/schema).
// The module name is taken from the first migration's filename
// (00001_docflow.sql -> "docflow") and keys the version table.
func migrationDir(fsys *embed.FS) (string, string, error) {
	dir, name := "", ""
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		// first .sql file wins; migrations of one module live in one dir
		if !d.IsDir() && dir == "" && strings.HasSuffix(path, ".sql") {
			dir = parentDir(path)
			name = moduleName(path)
		}
		return nil
	})
	if err != nil {
		return "", "", errors.Wrap(err, "walk migration fs")
	}
	if dir == "" {
		return "", "", errors.New("no migration files embedded")
	}
	return dir, name, nil
}

func moduleName(path string) string {
	base := strings.TrimSuffix(path, ".sql")
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.IndexByte(base, '_'); i >= 0 {
		base = base[i+1:]
	}
	sanitized := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, strings.ToLower(base))
	if sanitized == "" {
		return "module"
	}
	return sanitized
}

func parentDir(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}

type gooseLogger struct {
	log *logrus.Logger
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) { l.log.Fatalf(format, v...) }
func (l gooseLogger) Printf(format string, v ...interface{}) { l.log.Infof(format, v...) }
