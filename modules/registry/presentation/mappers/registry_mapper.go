package mappers

import (
	"github.com/adi-digital/docscriptum/modules/registry/domain/aggregates/document"
	"github.com/adi-digital/docscriptum/modules/registry/domain/aggregates/organization"
	"github.com/adi-digital/docscriptum/modules/registry/domain/aggregates/project"
	"github.com/adi-digital/docscriptum/modules/registry/presentation/viewmodels"
)

func OrganizationToViewModel(o organization.Organization) viewmodels.Organization {
	return viewmodels.Organization{
		ID:           o.ID(),
		Name:         o.Name(),
		OrgType:      string(o.OrgType()),
		CNPJ:         o.CNPJ(),
		ContactEmail: o.ContactEmail(),
		Segment:      o.Segment(),
		Status:       string(o.Status()),
		CreatedAt:    o.CreatedAt(),
		UpdatedAt:    o.UpdatedAt(),
	}
}

func ProjectToViewModel(p project.Project) viewmodels.Project {
	return viewmodels.Project{
		ID:        p.ID(),
		Code:      p.Code(),
		Name:      p.Name(),
		ClientID:  p.ClientID(),
		Status:    string(p.Status()),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}

func DocumentToViewModel(d document.Document) viewmodels.Document {
	return viewmodels.Document{
		ID:        d.ID(),
		ProjectID: d.ProjectID(),
		Code:      d.Code(),
		Title:     d.Title(),
		Revision:  d.Revision(),
		Format:    d.Format(),
		Pages:     d.Pages(),
		FileURL:   d.FileURL(),
		Status:    string(d.Status()),
		CreatedAt: d.CreatedAt(),
		UpdatedAt: d.UpdatedAt(),
	}
}
