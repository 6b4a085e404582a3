package persistence

import (
	"context"
	"errors"
	"strings"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/adi-digital/docscriptum/modules/registry/domain/aggregates/organization"
	"github.com/adi-digital/docscriptum/modules/registry/infrastructure/persistence/models"
	"github.com/adi-digital/docscriptum/pkg/composables"
	"github.com/adi-digital/docscriptum/pkg/repo"
)

const organizationColumns = "id, name, org_type, cnpj, contact_email, segment, status, created_at, updated_at"

type OrganizationRepository struct{}

func NewOrganizationRepository() organization.Repository {
	return &OrganizationRepository{}
}

func (r *OrganizationRepository) GetPaginated(ctx context.Context, params *organization.FindParams) ([]organization.Organization, int64, error) {
	if params == nil {
		params = &organization.FindParams{}
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	where, args := buildOrganizationFilters(params)
	query := `
		SELECT ` + organizationColumns + `
		FROM organizations
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY name ASC
	`
	query += " " + repo.FormatLimitOffset(normalizeLimit(params.Limit), params.Offset)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []organization.Organization
	for rows.Next() {
		var row models.Organization
		if err := scanOrganization(rows, &row); err != nil {
			return nil, 0, err
		}
		out = append(out, toDomainOrganization(&row))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM organizations
		WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id int64) (organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return organization.Organization{}, err
	}

	var row models.Organization
	err = scanOrganization(tx.QueryRow(ctx, `
		SELECT `+organizationColumns+`
		FROM organizations
		WHERE id = $1
	`, id), &row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return organization.Organization{}, organization.ErrNotFound
		}
		return organization.Organization{}, err
	}
	return toDomainOrganization(&row), nil
}

func (r *OrganizationRepository) Create(ctx context.Context, o organization.Organization) (organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return organization.Organization{}, err
	}

	var row models.Organization
	err = scanOrganization(tx.QueryRow(ctx, `
		INSERT INTO organizations (name, org_type, cnpj, contact_email, segment, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+organizationColumns,
		o.Name(), string(o.OrgType()), o.CNPJ(), o.ContactEmail(), o.Segment(), string(o.Status()),
	), &row)
	if err != nil {
		return organization.Organization{}, gerrors.Wrap(err, "create organization")
	}
	return toDomainOrganization(&row), nil
}

func (r *OrganizationRepository) Update(ctx context.Context, o organization.Organization) (organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return organization.Organization{}, err
	}

	var row models.Organization
	err = scanOrganization(tx.QueryRow(ctx, `
		UPDATE organizations
		SET name = $2, org_type = $3, cnpj = $4, contact_email = $5, segment = $6, status = $7, updated_at = now()
		WHERE id = $1
		RETURNING `+organizationColumns,
		o.ID(), o.Name(), string(o.OrgType()), o.CNPJ(), o.ContactEmail(), o.Segment(), string(o.Status()),
	), &row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return organization.Organization{}, organization.ErrNotFound
		}
		return organization.Organization{}, gerrors.Wrap(err, "update organization")
	}
	return toDomainOrganization(&row), nil
}

func buildOrganizationFilters(params *organization.FindParams) ([]string, []any) {
	where := []string{"1 = 1"}
	var args []any

	if q := strings.TrimSpace(params.Q); q != "" {
		args = append(args, "%"+q+"%")
		where = append(where, "(name ILIKE $"+itoa(len(args))+" OR cnpj ILIKE $"+itoa(len(args))+")")
	}
	if params.OrgType != "" {
		args = append(args, string(params.OrgType))
		where = append(where, "org_type = $"+itoa(len(args)))
	}
	return where, args
}

type scannable interface {
	Scan(dest ...any) error
}

func scanOrganization(row scannable, dst *models.Organization) error {
	return row.Scan(
		&dst.ID,
		&dst.Name,
		&dst.OrgType,
		&dst.CNPJ,
		&dst.ContactEmail,
		&dst.Segment,
		&dst.Status,
		&dst.CreatedAt,
		&dst.UpdatedAt,
	)
}

func toDomainOrganization(row *models.Organization) organization.Organization {
	return organization.Hydrate(
		row.ID,
		row.Name,
		organization.Type(row.OrgType),
		row.CNPJ,
		row.ContactEmail,
		row.Segment,
		organization.Status(row.Status),
		row.CreatedAt,
		row.UpdatedAt,
	)
}
