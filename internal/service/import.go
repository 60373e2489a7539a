package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"landivo/internal/apperr"
	"landivo/internal/batch"
	"landivo/internal/model"
	"landivo/internal/repository"
)

// ImportInput is a bulk import request. Each row is kept raw so failures
// can echo it back.
type ImportInput struct {
	Buyers []json.RawMessage `json:"buyers"`
	Source string            `json:"source"`
}

// ImportRow is one decoded import row. The caller decides whether a row is
// new or updates ExistingBuyerID.
type ImportRow struct {
	Email                 string   `json:"email"`
	Phone                 string   `json:"phone"`
	FirstName             string   `json:"firstName"`
	LastName              string   `json:"lastName"`
	BuyerType             string   `json:"buyerType"`
	PreferredAreas        []string `json:"preferredAreas"`
	EmailStatus           string   `json:"emailStatus"`
	EmailPermissionStatus string   `json:"emailPermissionStatus"`
	IsNew                 bool     `json:"isNew"`
	ExistingBuyerID       string   `json:"existingBuyerId"`
}

// ImportError pairs a failed row with the reason.
type ImportError struct {
	Data   json.RawMessage `json:"data"`
	Reason string          `json:"reason"`
}

// ImportResults are the aggregate outcome of an import.
type ImportResults struct {
	Created         int           `json:"created"`
	Updated         int           `json:"updated"`
	Failed          int           `json:"failed"`
	Skipped         int           `json:"skipped"`
	Errors          []ImportError `json:"errors"`
	CreatedBuyerIDs []string      `json:"createdBuyerIds"`
	UpdatedBuyerIDs []string      `json:"updatedBuyerIds"`
}

type importAction int

const (
	actionSkipped importAction = iota
	actionCreated
	actionUpdated
)

type importOutcome struct {
	action importAction
	id     string
}

// errMissingEmail is the row failure for a row without an email.
var errMissingEmail = errors.New("Missing required email field")

// Import processes every row independently. A failing row is recorded and
// never stops the batch.
func (s *BuyerService) Import(ctx context.Context, in ImportInput) (*ImportResults, error) {
	if len(in.Buyers) == 0 {
		return nil, apperr.Validation("No buyer data provided")
	}
	source := in.Source
	if strings.TrimSpace(source) == "" {
		source = model.SourceCSVImport
	}

	outcomes := batch.Each(in.Buyers, func(raw json.RawMessage) (importOutcome, error) {
		return s.importRow(ctx, raw, source)
	})

	res := &ImportResults{Errors: []ImportError{}, CreatedBuyerIDs: []string{}, UpdatedBuyerIDs: []string{}}
	for _, o := range batch.Failed(outcomes) {
		res.Failed++
		res.Errors = append(res.Errors, ImportError{Data: o.Item, Reason: o.Err.Error()})
		s.log.Warning("import row failed", "reason", o.Err.Error())
	}
	for _, o := range outcomes {
		if !o.OK() {
			continue
		}
		switch o.Value.action {
		case actionCreated:
			res.Created++
			res.CreatedBuyerIDs = append(res.CreatedBuyerIDs, o.Value.id)
		case actionUpdated:
			res.Updated++
			res.UpdatedBuyerIDs = append(res.UpdatedBuyerIDs, o.Value.id)
		default:
			res.Skipped++
		}
	}
	s.log.Info("buyer import finished", "rows", len(in.Buyers), "created", res.Created, "updated", res.Updated, "failed", res.Failed, "skipped", res.Skipped)
	return res, nil
}

func (s *BuyerService) importRow(ctx context.Context, raw json.RawMessage, source string) (importOutcome, error) {
	var row ImportRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return importOutcome{}, fmt.Errorf("invalid row: %v", err)
	}
	if strings.TrimSpace(row.Email) == "" {
		return importOutcome{}, errMissingEmail
	}

	buyerType := canonicalOrRaw(row.BuyerType, model.CanonicalBuyerType)
	if buyerType != "" && !model.IsBuyerType(buyerType) {
		s.log.Debug("import kept unknown buyer type", "email", row.Email, "buyerType", buyerType)
	}
	var areas datatypes.JSONSlice[string]
	if row.PreferredAreas != nil {
		areas = datatypes.JSONSlice[string]{}
		for _, a := range row.PreferredAreas {
			id := canonicalOrRaw(a, model.CanonicalArea)
			if !model.IsArea(id) {
				s.log.Debug("import kept unknown area", "email", row.Email, "area", id)
			}
			areas = append(areas, id)
		}
	}

	switch {
	case row.IsNew:
		emailStatus := row.EmailStatus
		if emailStatus == "" {
			emailStatus = model.EmailStatusAvailable
		}
		if areas == nil {
			areas = datatypes.JSONSlice[string]{}
		}
		b := &model.Buyer{
			Email:                 row.Email,
			Phone:                 model.StringPtr(strings.TrimSpace(row.Phone)),
			FirstName:             model.StringPtr(row.FirstName),
			LastName:              model.StringPtr(row.LastName),
			BuyerType:             model.StringPtr(buyerType),
			Source:                &source,
			PreferredAreas:        areas,
			EmailStatus:           &emailStatus,
			EmailPermissionStatus: model.StringPtr(row.EmailPermissionStatus),
		}
		if err := s.Buyers.Create(ctx, b); err != nil {
			return importOutcome{}, err
		}
		return importOutcome{action: actionCreated, id: b.ID}, nil

	case row.ExistingBuyerID != "":
		fields := map[string]any{"source": source}
		setIf(fields, "first_name", row.FirstName)
		setIf(fields, "last_name", row.LastName)
		setIf(fields, "buyer_type", buyerType)
		setIf(fields, "email_status", row.EmailStatus)
		setIf(fields, "email_permission_status", row.EmailPermissionStatus)
		if areas != nil {
			fields["preferred_areas"] = areas
		}
		if err := s.Buyers.UpdateFields(ctx, row.ExistingBuyerID, fields); err != nil {
			if repository.IsNotFound(err) {
				return importOutcome{}, fmt.Errorf("Buyer %s not found", row.ExistingBuyerID)
			}
			return importOutcome{}, err
		}
		return importOutcome{action: actionUpdated, id: row.ExistingBuyerID}, nil
	}
	return importOutcome{action: actionSkipped}, nil
}

func setIf(fields map[string]any, column, value string) {
	if strings.TrimSpace(value) != "" {
		fields[column] = value
	}
}

func canonicalOrRaw(s string, canon func(string) (string, bool)) string {
	if id, ok := canon(s); ok {
		return id
	}
	return strings.TrimSpace(s)
}
