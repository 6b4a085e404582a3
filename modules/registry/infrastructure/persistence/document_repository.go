package persistence

import (
	"context"
	"errors"
	"strings"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/adi-digital/docscriptum/modules/registry/domain/aggregates/document"
	"github.com/adi-digital/docscriptum/modules/registry/infrastructure/persistence/models"
	"github.com/adi-digital/docscriptum/pkg/composables"
	"github.com/adi-digital/docscriptum/pkg/repo"
)

const documentColumns = "id, project_id, code, title, revision, format, pages, file_url, status, created_at, updated_at"

type DocumentRepository struct{}

func NewDocumentRepository() document.Repository {
	return &DocumentRepository{}
}

func (r *DocumentRepository) GetPaginated(ctx context.Context, params *document.FindParams) ([]document.Document, int64, error) {
	if params == nil {
		params = &document.FindParams{}
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	where, args := buildDocumentFilters(params)
	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY code ASC
	`
	query += " " + repo.FormatLimitOffset(normalizeLimit(params.Limit), params.Offset)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []document.Document
	for rows.Next() {
		var row models.Document
		if err := scanDocument(rows, &row); err != nil {
			return nil, 0, err
		}
		out = append(out, toDomainDocument(&row))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM documents
		WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id int64) (document.Document, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return document.Document{}, err
	}

	var row models.Document
	err = scanDocument(tx.QueryRow(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE id = $1
	`, id), &row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return document.Document{}, document.ErrNotFound
		}
		return document.Document{}, err
	}
	return toDomainDocument(&row), nil
}

func (r *DocumentRepository) GetByIDs(ctx context.Context, ids []int64) ([]document.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE id = ANY($1)
		ORDER BY code ASC
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []document.Document
	for rows.Next() {
		var row models.Document
		if err := scanDocument(rows, &row); err != nil {
			return nil, err
		}
		out = append(out, toDomainDocument(&row))
	}
	return out, rows.Err()
}

func (r *DocumentRepository) Create(ctx context.Context, d document.Document) (document.Document, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return document.Document{}, err
	}

	var row models.Document
	err = scanDocument(tx.QueryRow(ctx, `
		INSERT INTO documents (project_id, code, title, revision, format, pages, file_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+documentColumns,
		d.ProjectID(), d.Code(), d.Title(), d.Revision(), d.Format(), d.Pages(), d.FileURL(), string(d.Status()),
	), &row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return document.Document{}, document.ErrCodeTaken
		}
		return document.Document{}, gerrors.Wrap(err, "create document")
	}
	return toDomainDocument(&row), nil
}

func (r *DocumentRepository) Update(ctx context.Context, d document.Document) (document.Document, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return document.Document{}, err
	}

	var row models.Document
	err = scanDocument(tx.QueryRow(ctx, `
		UPDATE documents
		SET title = $2, format = $3, pages = $4, file_url = $5, status = $6, updated_at = now()
		WHERE id = $1
		RETURNING `+documentColumns,
		d.ID(), d.Title(), d.Format(), d.Pages(), d.FileURL(), string(d.Status()),
	), &row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return document.Document{}, document.ErrNotFound
		}
		return document.Document{}, gerrors.Wrap(err, "update document")
	}
	return toDomainDocument(&row), nil
}

func (r *DocumentRepository) AdvanceRevision(ctx context.Context, id int64) (document.Document, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return document.Document{}, err
	}

	var row models.Document
	err = scanDocument(tx.QueryRow(ctx, `
		UPDATE documents
		SET revision = revision + 1, updated_at = now()
		WHERE id = $1
		RETURNING `+documentColumns,
		id,
	), &row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return document.Document{}, document.ErrNotFound
		}
		return document.Document{}, gerrors.Wrap(err, "advance document revision")
	}
	return toDomainDocument(&row), nil
}

func buildDocumentFilters(params *document.FindParams) ([]string, []any) {
	where := []string{"1 = 1"}
	var args []any

	if q := strings.TrimSpace(params.Q); q != "" {
		args = append(args, "%"+q+"%")
		where = append(where, "(code ILIKE $"+itoa(len(args))+" OR title ILIKE $"+itoa(len(args))+")")
	}
	if params.ProjectID != 0 {
		args = append(args, params.ProjectID)
		where = append(where, "project_id = $"+itoa(len(args)))
	}
	if params.Status != "" {
		args = append(args, string(params.Status))
		where = append(where, "status = $"+itoa(len(args)))
	}
	return where, args
}

func scanDocument(row scannable, dst *models.Document) error {
	return row.Scan(
		&dst.ID,
		&dst.ProjectID,
		&dst.Code,
		&dst.Title,
		&dst.Revision,
		&dst.Format,
		&dst.Pages,
		&dst.FileURL,
		&dst.Status,
		&dst.CreatedAt,
		&dst.UpdatedAt,
	)
}

func toDomainDocument(row *models.Document) document.Document {
	return document.Hydrate(
		row.ID,
		row.ProjectID,
		row.Code,
		row.Title,
		row.Revision,
		row.Format,
		row.Pages,
		row.FileURL,
		document.Status(row.Status),
		row.CreatedAt,
		row.UpdatedAt,
	)
}
