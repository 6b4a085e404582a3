package mappers

import (
	"github.com/adi-digital/docscriptum/modules/docflow/domain/aggregates/grd"
	"github.com/adi-digital/docscriptum/modules/docflow/domain/aggregates/request"
	"github.com/adi-digital/docscriptum/modules/docflow/presentation/viewmodels"
)

func RequestToViewModel(r request.Request) viewmodels.Request {
	docs := r.Documents()
	out := make([]viewmodels.DocumentRef, 0, len(docs))
	for _, d := range docs {
		out = append(out, viewmodels.DocumentRef{
			DocumentID:       d.DocumentID,
			Code:             d.Code,
			Title:            d.Title,
			UploadedRevision: d.UploadedRevision,
			Format:           d.Format,
			Pages:            d.Pages,
		})
	}
	return viewmodels.Request{
		ID:                  r.ID(),
		Number:              r.Number(),
		ProjectID:           r.ProjectID(),
		OriginID:            r.OriginID(),
		DestinationID:       r.DestinationID(),
		Purpose:             r.Purpose(),
		Description:         r.Description(),
		Justification:       r.Justification(),
		SpecialInstructions: r.SpecialInstructions(),
		RequesterName:       r.RequesterName(),
		RequesterContact:    r.RequesterContact(),
		Documents:           out,
		Status:              string(r.Status()),
		CreatedAt:           r.CreatedAt(),
		UpdatedAt:           r.UpdatedAt(),
	}
}

func VerdictToViewModel(v request.Verdict) viewmodels.Verdict {
	return viewmodels.Verdict{
		DocumentID:         v.DocumentID,
		Code:               v.Code,
		Title:              v.Title,
		RepositoryRevision: v.RepositoryRevision,
		UploadedRevision:   v.UploadedRevision,
		ExpectedRevision:   v.RepositoryRevision + 1,
		Sequential:         v.IsSequential(),
		Delta:              v.Delta(),
	}
}

func VerdictsToViewModels(verdicts []request.Verdict) []viewmodels.Verdict {
	out := make([]viewmodels.Verdict, 0, len(verdicts))
	for _, v := range verdicts {
		out = append(out, VerdictToViewModel(v))
	}
	return out
}

func GRDToViewModel(g grd.GRD) viewmodels.GRD {
	items := g.Items()
	out := make([]viewmodels.GRDItem, 0, len(items))
	for _, item := range items {
		out = append(out, viewmodels.GRDItem{
			DocumentID: item.DocumentID,
			Code:       item.Code,
			Title:      item.Title,
			Revision:   item.Revision,
			Format:     item.Format,
			Pages:      item.Pages,
		})
	}
	return viewmodels.GRD{
		ID:             g.ID(),
		Number:         g.Number(),
		Protocol:       g.Protocol(),
		RequestID:      g.RequestID(),
		ProjectID:      g.ProjectID(),
		OriginID:       g.OriginID(),
		DestinationID:  g.DestinationID(),
		Purpose:        g.Purpose(),
		DeliveryMethod: g.DeliveryMethod(),
		Observations:   g.Observations(),
		EmittedBy:      g.EmittedBy(),
		EmittedAt:      g.EmittedAt(),
		Status:         string(g.Status()),
		Items:          out,
	}
}
