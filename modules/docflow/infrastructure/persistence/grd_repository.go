package persistence

import (
	"context"
	"errors"
	"strings"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/adi-digital/docscriptum/modules/docflow/domain/aggregates/grd"
	"github.com/adi-digital/docscriptum/modules/docflow/infrastructure/persistence/models"
	"github.com/adi-digital/docscriptum/pkg/composables"
	"github.com/adi-digital/docscriptum/pkg/repo"
)

const grdColumns = "id, number, protocol, request_id, project_id, origin_id, destination_id, purpose, delivery_method, observations, emitted_by, emitted_at, status"

const grdItemColumns = "grd_id, document_id, code, title, revision, format, pages, position"

type GRDRepository struct{}

func NewGRDRepository() grd.Repository {
	return &GRDRepository{}
}

func (r *GRDRepository) GetPaginated(ctx context.Context, params *grd.FindParams) ([]grd.GRD, int64, error) {
	if params == nil {
		params = &grd.FindParams{}
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	where, args := buildGRDFilters(params)
	query := `
		SELECT ` + grdColumns + `
		FROM grds
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY emitted_at DESC, id DESC
	`
	query += " " + repo.FormatLimitOffset(normalizeLimit(params.Limit), params.Offset)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var grdRows []models.GRD
	for rows.Next() {
		var row models.GRD
		if err := scanGRD(rows, &row); err != nil {
			return nil, 0, err
		}
		grdRows = append(grdRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	itemsByGRD, err := r.itemsFor(ctx, grdIDs(grdRows))
	if err != nil {
		return nil, 0, err
	}

	out := make([]grd.GRD, 0, len(grdRows))
	for i := range grdRows {
		out = append(out, toDomainGRD(&grdRows[i], itemsByGRD[grdRows[i].ID]))
	}

	var total int64
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM grds
		WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

func (r *GRDRepository) GetByID(ctx context.Context, id int64) (grd.GRD, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *GRDRepository) GetByProtocol(ctx context.Context, protocol string) (grd.GRD, error) {
	return r.getOne(ctx, "protocol = $1", protocol)
}

func (r *GRDRepository) getOne(ctx context.Context, cond string, arg any) (grd.GRD, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return grd.GRD{}, err
	}

	var row models.GRD
	err = scanGRD(tx.QueryRow(ctx, `
		SELECT `+grdColumns+`
		FROM grds
		WHERE `+cond,
		arg,
	), &row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return grd.GRD{}, grd.ErrNotFound
		}
		return grd.GRD{}, err
	}

	items, err := r.itemsFor(ctx, []int64{row.ID})
	if err != nil {
		return grd.GRD{}, err
	}
	return toDomainGRD(&row, items[row.ID]), nil
}

func (r *GRDRepository) Create(ctx context.Context, g grd.GRD) (grd.GRD, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return grd.GRD{}, err
	}

	var row models.GRD
	err = scanGRD(tx.QueryRow(ctx, `
		INSERT INTO grds (number, protocol, request_id, project_id, origin_id, destination_id, purpose, delivery_method, observations, emitted_by, emitted_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+grdColumns,
		g.Number(), g.Protocol(), g.RequestID(), g.ProjectID(), g.OriginID(), g.DestinationID(),
		g.Purpose(), g.DeliveryMethod(), g.Observations(), g.EmittedBy(), g.EmittedAt(), string(g.Status()),
	), &row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && isUniqueViolation(pgErr.Code) {
			return grd.GRD{}, grd.ErrNumberTaken
		}
		return grd.GRD{}, gerrors.Wrap(err, "create grd")
	}

	items := g.Items()
	for i, item := range items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO grd_items (grd_id, document_id, code, title, revision, format, pages, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, row.ID, item.DocumentID, item.Code, item.Title, item.Revision, item.Format, item.Pages, i); err != nil {
			return grd.GRD{}, gerrors.Wrap(err, "create grd item")
		}
	}

	return toDomainGRD(&row, items), nil
}

func (r *GRDRepository) Count(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	var total int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM grds`).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *GRDRepository) itemsFor(ctx context.Context, ids []int64) (map[int64][]grd.Item, error) {
	if len(ids) == 0 {
		return map[int64][]grd.Item{}, nil
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT `+grdItemColumns+`
		FROM grd_items
		WHERE grd_id = ANY($1)
		ORDER BY grd_id ASC, position ASC
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]grd.Item, len(ids))
	for rows.Next() {
		var row models.GRDItem
		if err := rows.Scan(
			&row.GRDID,
			&row.DocumentID,
			&row.Code,
			&row.Title,
			&row.Revision,
			&row.Format,
			&row.Pages,
			&row.Position,
		); err != nil {
			return nil, err
		}
		out[row.GRDID] = append(out[row.GRDID], grd.Item{
			DocumentID: row.DocumentID,
			Code:       row.Code,
			Title:      row.Title,
			Revision:   row.Revision,
			Format:     row.Format,
			Pages:      row.Pages,
		})
	}
	return out, rows.Err()
}

func buildGRDFilters(params *grd.FindParams) ([]string, []any) {
	where := []string{"1 = 1"}
	var args []any

	if q := strings.TrimSpace(params.Q); q != "" {
		args = append(args, "%"+q+"%")
		where = append(where, "(number ILIKE $"+itoa(len(args))+" OR protocol ILIKE $"+itoa(len(args))+")")
	}
	if params.RequestID != 0 {
		args = append(args, params.RequestID)
		where = append(where, "request_id = $"+itoa(len(args)))
	}
	if params.ProjectID != 0 {
		args = append(args, params.ProjectID)
		where = append(where, "project_id = $"+itoa(len(args)))
	}
	return where, args
}

func scanGRD(row scannable, dst *models.GRD) error {
	return row.Scan(
		&dst.ID,
		&dst.Number,
		&dst.Protocol,
		&dst.RequestID,
		&dst.ProjectID,
		&dst.OriginID,
		&dst.DestinationID,
		&dst.Purpose,
		&dst.DeliveryMethod,
		&dst.Observations,
		&dst.EmittedBy,
		&dst.EmittedAt,
		&dst.Status,
	)
}

func toDomainGRD(row *models.GRD, items []grd.Item) grd.GRD {
	return grd.Hydrate(
		row.ID,
		row.Number,
		row.Protocol,
		row.RequestID,
		row.ProjectID,
		row.OriginID,
		row.DestinationID,
		row.Purpose,
		row.DeliveryMethod,
		row.Observations,
		row.EmittedBy,
		row.EmittedAt,
		grd.Status(row.Status),
		items,
	)
}

func grdIDs(rows []models.GRD) []int64 {
	ids := make([]int64, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].ID)
	}
	return ids
}
