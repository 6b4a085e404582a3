package persistence

import (
	"context"
	"errors"
	"strings"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/adi-digital/docscriptum/modules/registry/domain/aggregates/project"
	"github.com/adi-digital/docscriptum/modules/registry/infrastructure/persistence/models"
	"github.com/adi-digital/docscriptum/pkg/composables"
	"github.com/adi-digital/docscriptum/pkg/repo"
)

const projectColumns = "id, code, name, client_id, status, created_at, updated_at"

type ProjectRepository struct{}

func NewProjectRepository() project.Repository {
	return &ProjectRepository{}
}

func (r *ProjectRepository) GetPaginated(ctx context.Context, params *project.FindParams) ([]project.Project, int64, error) {
	if params == nil {
		params = &project.FindParams{}
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	where, args := buildProjectFilters(params)
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC
	`
	query += " " + repo.FormatLimitOffset(normalizeLimit(params.Limit), params.Offset)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []project.Project
	for rows.Next() {
		var row models.Project
		if err := scanProject(rows, &row); err != nil {
			return nil, 0, err
		}
		out = append(out, toDomainProject(&row))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM projects
		WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (project.Project, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return project.Project{}, err
	}

	var row models.Project
	err = scanProject(tx.QueryRow(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE id = $1
	`, id), &row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return project.Project{}, project.ErrNotFound
		}
		return project.Project{}, err
	}
	return toDomainProject(&row), nil
}

func (r *ProjectRepository) Create(ctx context.Context, p project.Project) (project.Project, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return project.Project{}, err
	}

	var row models.Project
	err = scanProject(tx.QueryRow(ctx, `
		INSERT INTO projects (code, name, client_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING `+projectColumns,
		p.Code(), p.Name(), p.ClientID(), string(p.Status()),
	), &row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return project.Project{}, project.ErrCodeTaken
		}
		return project.Project{}, gerrors.Wrap(err, "create project")
	}
	return toDomainProject(&row), nil
}

func (r *ProjectRepository) Update(ctx context.Context, p project.Project) (project.Project, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return project.Project{}, err
	}

	var row models.Project
	err = scanProject(tx.QueryRow(ctx, `
		UPDATE projects
		SET code = $2, name = $3, client_id = $4, status = $5, updated_at = now()
		WHERE id = $1
		RETURNING `+projectColumns,
		p.ID(), p.Code(), p.Name(), p.ClientID(), string(p.Status()),
	), &row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return project.Project{}, project.ErrNotFound
		}
		return project.Project{}, gerrors.Wrap(err, "update project")
	}
	return toDomainProject(&row), nil
}

func buildProjectFilters(params *project.FindParams) ([]string, []any) {
	where := []string{"1 = 1"}
	var args []any

	if q := strings.TrimSpace(params.Q); q != "" {
		args = append(args, "%"+q+"%")
		where = append(where, "(code ILIKE $"+itoa(len(args))+" OR name ILIKE $"+itoa(len(args))+")")
	}
	if params.ClientID != 0 {
		args = append(args, params.ClientID)
		where = append(where, "client_id = $"+itoa(len(args)))
	}
	if params.Status != "" {
		args = append(args, string(params.Status))
		where = append(where, "status = $"+itoa(len(args)))
	}
	return where, args
}

func scanProject(row scannable, dst *models.Project) error {
	return row.Scan(
		&dst.ID,
		&dst.Code,
		&dst.Name,
		&dst.ClientID,
		&dst.Status,
		&dst.CreatedAt,
		&dst.UpdatedAt,
	)
}

func toDomainProject(row *models.Project) project.Project {
	return project.Hydrate(
		row.ID,
		row.Code,
		row.Name,
		row.ClientID,
		project.Status(row.Status),
		row.CreatedAt,
		row.UpdatedAt,
	)
}
