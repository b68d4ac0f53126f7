package dto

import "github.com/nakelabs/kasa-alert-connect/internal/domain"

func NewUserResponse(a *domain.Agency) UserResponse {
	return UserResponse{
		ID:         a.ID,
		Email:      a.Email,
		AgencyName: a.Name,
		Role:       a.Role,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func NewAlertResponse(a *domain.Alert) AlertResponse {
	return AlertResponse{
		ID:              a.ID,
		AgencyID:        a.AgencyID,
		Message:         a.Message,
		Priority:        string(a.Priority),
		Recipients:      string(a.Selector),
		Location:        a.Location,
		SentAt:          a.CreatedAt,
		Status:          a.Status(),
		TotalRecipients: a.TotalRecipients,
		DeliveredCount:  a.DeliveredCount,
		FailedCount:     a.FailedCount,
	}
}

func NewAlertLogResponse(l *domain.AlertLog) AlertLogResponse {
	return AlertLogResponse{
		ID:           l.ID,
		AlertID:      l.AlertID,
		Message:      l.Message,
		Recipient:    l.Recipient,
		Status:       string(l.Status),
		Reply:        l.Reply,
		SentAt:       l.SentAt,
		DeliveredAt:  l.DeliveredAt,
		RepliedAt:    l.RepliedAt,
		FailedReason: l.FailedReason,
	}
}

func NewRecipientResponse(r *domain.Recipient) RecipientResponse {
	return RecipientResponse{
		ID:        r.ID,
		Name:      r.Name,
		Phone:     r.Phone,
		Location:  r.Location,
		Priority:  r.Priority,
		DateAdded: r.CreatedAt,
		AgencyID:  r.AgencyID,
		IsActive:  r.Active,
	}
}

func NewImportResponse(r *domain.ImportResult) ImportResponse {
	rejected := make([]ImportRejectionResponse, 0, len(r.Rejected))
	for _, rej := range r.Rejected {
		rejected = append(rejected, ImportRejectionResponse{Line: rej.Line, Reason: rej.Reason, Detail: rej.Detail})
	}
	return ImportResponse{Added: r.Added, Rejected: rejected, TotalRows: r.TotalRows}
}

func NewStatsResponse(s *domain.DashboardStats) StatsResponse {
	return StatsResponse{
		TotalUsers:      s.TotalUsers,
		AlertsSent:      s.AlertsSent,
		RepliesReceived: s.RepliesReceived,
		DeliveryRate:    s.DeliveryRate,
		Range:           string(s.Period),
	}
}

func NewDeliveryEventResponse(e *domain.DeliveryEvent) DeliveryEventResponse {
	return DeliveryEventResponse{
		EventID:      e.EventID,
		Kind:         string(e.Kind),
		Status:       string(e.Status),
		FailedReason: e.FailedReason,
		Reply:        e.Reply,
		OccurredAt:   e.OccurredAt,
		RecordedAt:   e.RecordedAt,
	}
}

// NewPagination builds the pagination block for a normalized page
func NewPagination(page domain.Page, total int64) *Pagination {
	p := page.Normalize()
	return &Pagination{
		Page:       p.Number,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: p.TotalPages(total),
	}
}
