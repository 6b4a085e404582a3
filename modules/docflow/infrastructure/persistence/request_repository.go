package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/adi-digital/docscriptum/modules/docflow/domain/aggregates/request"
	"github.com/adi-digital/docscriptum/modules/docflow/infrastructure/persistence/models"
	"github.com/adi-digital/docscriptum/pkg/composables"
	"github.com/adi-digital/docscriptum/pkg/repo"
)

const requestColumns = "id, number, project_id, origin_id, destination_id, purpose, description, justification, special_instructions, requester_name, requester_contact, status, created_at, updated_at"

const requestDocumentColumns = "request_id, document_id, code, title, uploaded_revision, format, pages, position"

type RequestRepository struct{}

func NewRequestRepository() request.Repository {
	return &RequestRepository{}
}

func (r *RequestRepository) GetPaginated(ctx context.Context, params *request.FindParams) ([]request.Request, int64, error) {
	if params == nil {
		params = &request.FindParams{}
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	where, args := buildRequestFilters(params)
	query := `
		SELECT ` + requestColumns + `
		FROM transmittal_requests
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC, id DESC
	`
	query += " " + repo.FormatLimitOffset(normalizeLimit(params.Limit), params.Offset)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var reqRows []models.Request
	for rows.Next() {
		var row models.Request
		if err := scanRequest(rows, &row); err != nil {
			return nil, 0, err
		}
		reqRows = append(reqRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	docsByRequest, err := r.documentsFor(ctx, requestIDs(reqRows))
	if err != nil {
		return nil, 0, err
	}

	out := make([]request.Request, 0, len(reqRows))
	for i := range reqRows {
		out = append(out, toDomainRequest(&reqRows[i], docsByRequest[reqRows[i].ID]))
	}

	var total int64
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM transmittal_requests
		WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id int64) (request.Request, error) {
	return r.getByID(ctx, id, false)
}

func (r *RequestRepository) GetByIDForUpdate(ctx context.Context, id int64) (request.Request, error) {
	return r.getByID(ctx, id, true)
}

func (r *RequestRepository) getByID(ctx context.Context, id int64, forUpdate bool) (request.Request, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return request.Request{}, err
	}

	query := `
		SELECT ` + requestColumns + `
		FROM transmittal_requests
		WHERE id = $1
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var row models.Request
	if err := scanRequest(tx.QueryRow(ctx, query, id), &row); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return request.Request{}, request.ErrNotFound
		}
		return request.Request{}, err
	}

	docs, err := r.documentsFor(ctx, []int64{id})
	if err != nil {
		return request.Request{}, err
	}
	return toDomainRequest(&row, docs[id]), nil
}

func (r *RequestRepository) Create(ctx context.Context, req request.Request) (request.Request, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return request.Request{}, err
	}

	var row models.Request
	err = scanRequest(tx.QueryRow(ctx, `
		INSERT INTO transmittal_requests (number, project_id, origin_id, destination_id, purpose, description, justification, special_instructions, requester_name, requester_contact, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+requestColumns,
		req.Number(), req.ProjectID(), req.OriginID(), req.DestinationID(),
		req.Purpose(), req.Description(), req.Justification(), req.SpecialInstructions(),
		req.RequesterName(), req.RequesterContact(), string(req.Status()),
	), &row)
	if err != nil {
		return request.Request{}, gerrors.Wrap(err, "create request")
	}

	docs := req.Documents()
	for i, d := range docs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO transmittal_request_documents (request_id, document_id, code, title, uploaded_revision, format, pages, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, row.ID, d.DocumentID, d.Code, d.Title, d.UploadedRevision, d.Format, d.Pages, i); err != nil {
			return request.Request{}, gerrors.Wrap(err, "create request document")
		}
	}

	return toDomainRequest(&row, docs), nil
}

func (r *RequestRepository) UpdateStatus(ctx context.Context, id int64, status request.Status, expectedUpdatedAt time.Time) (request.Request, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return request.Request{}, err
	}

	var row models.Request
	err = scanRequest(tx.QueryRow(ctx, `
		UPDATE transmittal_requests
		SET status = $2, updated_at = now()
		WHERE id = $1 AND updated_at = $3
		RETURNING `+requestColumns,
		id, string(status), expectedUpdatedAt,
	), &row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguish a lost race from a dangling id.
			var exists bool
			if probeErr := tx.QueryRow(ctx, `
				SELECT EXISTS (SELECT 1 FROM transmittal_requests WHERE id = $1)
			`, id).Scan(&exists); probeErr != nil {
				return request.Request{}, probeErr
			}
			if exists {
				return request.Request{}, request.ErrConflict
			}
			return request.Request{}, request.ErrNotFound
		}
		return request.Request{}, gerrors.Wrap(err, "update request status")
	}

	docs, err := r.documentsFor(ctx, []int64{id})
	if err != nil {
		return request.Request{}, err
	}
	return toDomainRequest(&row, docs[id]), nil
}

func (r *RequestRepository) Count(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	var total int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM transmittal_requests`).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *RequestRepository) documentsFor(ctx context.Context, ids []int64) (map[int64][]request.DocumentRef, error) {
	if len(ids) == 0 {
		return map[int64][]request.DocumentRef{}, nil
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT `+requestDocumentColumns+`
		FROM transmittal_request_documents
		WHERE request_id = ANY($1)
		ORDER BY request_id ASC, position ASC
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]request.DocumentRef, len(ids))
	for rows.Next() {
		var row models.RequestDocument
		if err := rows.Scan(
			&row.RequestID,
			&row.DocumentID,
			&row.Code,
			&row.Title,
			&row.UploadedRevision,
			&row.Format,
			&row.Pages,
			&row.Position,
		); err != nil {
			return nil, err
		}
		out[row.RequestID] = append(out[row.RequestID], request.DocumentRef{
			DocumentID:       row.DocumentID,
			Code:             row.Code,
			Title:            row.Title,
			UploadedRevision: row.UploadedRevision,
			Format:           row.Format,
			Pages:            row.Pages,
		})
	}
	return out, rows.Err()
}

func buildRequestFilters(params *request.FindParams) ([]string, []any) {
	where := []string{"1 = 1"}
	var args []any

	if q := strings.TrimSpace(params.Q); q != "" {
		args = append(args, "%"+q+"%")
		where = append(where, "(number ILIKE $"+itoa(len(args))+" OR purpose ILIKE $"+itoa(len(args))+" OR requester_name ILIKE $"+itoa(len(args))+")")
	}
	if params.Status != "" {
		args = append(args, string(params.Status))
		where = append(where, "status = $"+itoa(len(args)))
	}
	if params.ProjectID != 0 {
		args = append(args, params.ProjectID)
		where = append(where, "project_id = $"+itoa(len(args)))
	}
	return where, args
}

func scanRequest(row scannable, dst *models.Request) error {
	return row.Scan(
		&dst.ID,
		&dst.Number,
		&dst.ProjectID,
		&dst.OriginID,
		&dst.DestinationID,
		&dst.Purpose,
		&dst.Description,
		&dst.Justification,
		&dst.SpecialInstructions,
		&dst.RequesterName,
		&dst.RequesterContact,
		&dst.Status,
		&dst.CreatedAt,
		&dst.UpdatedAt,
	)
}

func toDomainRequest(row *models.Request, docs []request.DocumentRef) request.Request {
	return request.Hydrate(
		row.ID,
		row.Number,
		row.ProjectID,
		row.OriginID,
		row.DestinationID,
		row.Purpose,
		row.Description,
		row.Justification,
		row.SpecialInstructions,
		row.RequesterName,
		row.RequesterContact,
		docs,
		request.Status(row.Status),
		row.CreatedAt,
		row.UpdatedAt,
	)
}

func requestIDs(rows []models.Request) []int64 {
	ids := make([]int64, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].ID)
	}
	return ids
}
