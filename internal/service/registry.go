package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nakelabs/kasa-alert-connect/internal/config"
	"github.com/nakelabs/kasa-alert-connect/internal/domain"
	"github.com/nakelabs/kasa-alert-connect/internal/phone"
	"github.com/nakelabs/kasa-alert-connect/internal/repository"
)

const minImportFields = 3

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// RecipientInput holds the user-supplied fields of a recipient
type RecipientInput struct {
	Name     string
	Phone    string
	Location string
	Priority bool
}

// RegistryService manages per-agency recipients
type RegistryService struct {
	repo     repository.RecipientRepository
	phones   *phone.Normalizer
	archiver Archiver
	config   config.Registry
	log      *zap.Logger
}

// NewRegistryService creates a new registry service; archiver may be nil
func NewRegistryService(repo repository.RecipientRepository, archiver Archiver, cfg config.Registry, log *zap.Logger) *RegistryService {
	return &RegistryService{
		repo:     repo,
		phones:   phone.NewNormalizer(cfg.DefaultRegion),
		archiver: archiver,
		config:   cfg,
		log:      log,
	}
}

// List returns one page of recipients and the total match count
func (s *RegistryService) List(ctx context.Context, agencyID string, filter domain.RecipientFilter) ([]domain.Recipient, int64, error) {
	filter.Page = filter.Page.Normalize()
	recipients, total, err := s.repo.ListRecipients(ctx, agencyID, filter)
	if err != nil {
		return nil, 0, storeError(err, "list recipients")
	}
	return recipients, total, nil
}

// Add validates and stores a single recipient
func (s *RegistryService) Add(ctx context.Context, agencyID string, input RecipientInput) (*domain.Recipient, error) {
	recipient, err := s.build(agencyID, input)
	if err != nil {
		return nil, err
	}

	stored, err := s.repo.InsertRecipient(ctx, recipient)
	if err != nil {
		return nil, storeError(err, "add recipient")
	}

	s.log.Info("Recipient added",
		zap.String("agency_id", agencyID),
		zap.String("recipient_id", stored.ID))

	return stored, nil
}

// Remove deletes a recipient, or deactivates it when alerts reference it
func (s *RegistryService) Remove(ctx context.Context, agencyID, id string) error {
	deactivated, err := s.repo.RemoveRecipient(ctx, agencyID, id)
	if err != nil {
		return storeError(err, "remove recipient")
	}

	s.log.Info("Recipient removed",
		zap.String("agency_id", agencyID),
		zap.String("recipient_id", id),
		zap.Bool("deactivated", deactivated))

	return nil
}

// Count previews how many active recipients a selection resolves to
func (s *RegistryService) Count(ctx context.Context, agencyID string, selection domain.RecipientSelection) (int64, error) {
	if err := selection.Validate(); err != nil {
		return 0, err
	}
	count, err := s.repo.CountRecipients(ctx, agencyID, selection)
	if err != nil {
		return 0, storeError(err, "count recipients")
	}
	return count, nil
}

// Template returns a CSV file showing the import columns
func (s *RegistryService) Template() []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.WriteAll([][]string{
		{"name", "phone", "location", "priority"},
		{"Jane Doe", "+15551234567", "downtown", "yes"},
		{"John Roe", "+15557654321", "north", "no"},
	})
	return buf.Bytes()
}

// importRow is a parsed data row waiting to be inserted
type importRow struct {
	line  int
	input RecipientInput
}

// columns maps import fields to record indexes
type columns struct {
	name, phone, location, priority int
}

var positionalColumns = columns{name: 0, phone: 1, location: 2, priority: 3}

// BulkImport parses a CSV upload and adds every valid row.
// Invalid rows are reported with their line number and do not stop the import.
func (s *RegistryService) BulkImport(ctx context.Context, agencyID, filename string, data []byte) (*domain.ImportResult, error) {
	if len(data) == 0 {
		return nil, domain.ErrInvalidUpload.WithMessage("file is empty")
	}
	if s.config.MaxUploadBytes > 0 && int64(len(data)) > s.config.MaxUploadBytes {
		return nil, domain.ErrInvalidUpload.WithMessage("file exceeds %d bytes", s.config.MaxUploadBytes)
	}

	s.archive(ctx, agencyID, filename, data)

	rows, result, err := s.parse(data)
	if err != nil {
		return nil, err
	}
	if s.config.MaxImportRows > 0 && result.TotalRows > s.config.MaxImportRows {
		return nil, domain.ErrInvalidUpload.WithMessage("file has %d rows, the limit is %d", result.TotalRows, s.config.MaxImportRows)
	}

	seen := make(map[string]int, len(rows))
	for _, row := range rows {
		recipient, err := s.build(agencyID, row.input)
		if err != nil {
			result.Rejected = append(result.Rejected, rejection(row.line, err))
			continue
		}

		if first, ok := seen[recipient.Phone]; ok {
			result.Rejected = append(result.Rejected, domain.ImportRejection{
				Line:   row.line,
				Reason: domain.RejectDuplicateRecipient,
				Detail: fmt.Sprintf("phone %s already appears on line %d", recipient.Phone, first),
			})
			continue
		}
		seen[recipient.Phone] = row.line

		if _, err := s.repo.InsertRecipient(ctx, recipient); err != nil {
			if errors.Is(err, domain.ErrDuplicateRecipient) {
				result.Rejected = append(result.Rejected, domain.ImportRejection{
					Line:   row.line,
					Reason: domain.RejectDuplicateRecipient,
					Detail: fmt.Sprintf("phone %s is already registered", recipient.Phone),
				})
				continue
			}
			s.log.Error("Import aborted by store failure",
				zap.String("agency_id", agencyID),
				zap.Int("line", row.line),
				zap.Int("added", result.Added),
				zap.Error(err))
			return nil, storeError(err, "import recipient")
		}
		result.Added++
	}

	s.log.Info("Recipient import finished",
		zap.String("agency_id", agencyID),
		zap.String("filename", filename),
		zap.Int("total_rows", result.TotalRows),
		zap.Int("added", result.Added),
		zap.Int("rejected", len(result.Rejected)))

	return result, nil
}

// parse reads every record; malformed records become rejections and parsing continues
func (s *RegistryService) parse(data []byte) ([]importRow, *domain.ImportResult, error) {
	p := &importParser{
		cols:   positionalColumns,
		first:  true,
		result: &domain.ImportResult{Rejected: []domain.ImportRejection{}},
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	lineBase := 0
	for len(data) > 0 {
		skip, err := p.read(data, lineBase)
		if err != nil {
			return nil, nil, err
		}
		if skip == 0 {
			break
		}
		data = dropLines(data, skip)
		lineBase += skip
	}

	return p.rows, p.result, nil
}

// importParser carries header and row state across restarts of the csv reader
type importParser struct {
	cols   columns
	first  bool
	rows   []importRow
	result *domain.ImportResult
}

// read parses data until EOF and returns 0, or stops at a malformed record that
// spans several lines and returns how many lines to drop before reading again.
// An unterminated quote would otherwise consume every line after it.
func (p *importParser) read(data []byte, lineBase int) (int, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return 0, nil
		}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return 0, domain.ErrInvalidUpload.Wrap(err)
			}
			p.first = false
			p.result.TotalRows++
			p.result.Rejected = append(p.result.Rejected, domain.ImportRejection{
				Line:   lineBase + perr.StartLine,
				Reason: domain.RejectMalformedRow,
				Detail: perr.Err.Error(),
			})
			if perr.Line > perr.StartLine {
				return perr.StartLine, nil
			}
			continue
		}

		line, _ := reader.FieldPos(0)
		line += lineBase

		if p.first {
			p.first = false
			if strings.EqualFold(strings.TrimSpace(record[0]), "name") {
				p.cols = headerColumns(record)
				continue
			}
		}

		p.result.TotalRows++
		if len(record) < minImportFields {
			p.result.Rejected = append(p.result.Rejected, domain.ImportRejection{
				Line:   line,
				Reason: domain.RejectMalformedRow,
				Detail: fmt.Sprintf("expected at least %d fields, got %d", minImportFields, len(record)),
			})
			continue
		}

		p.rows = append(p.rows, importRow{
			line: line,
			input: RecipientInput{
				Name:     field(record, p.cols.name),
				Phone:    field(record, p.cols.phone),
				Location: field(record, p.cols.location),
				Priority: parseFlag(field(record, p.cols.priority)),
			},
		})
	}
}

// dropLines removes the first n physical lines of data
func dropLines(data []byte, n int) []byte {
	for ; n > 0; n-- {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			return nil
		}
		data = data[i+1:]
	}
	return data
}

// headerColumns resolves column positions from a header row, falling back to
// the positional layout for columns it does not name
func headerColumns(header []string) columns {
	cols := positionalColumns
	named := columns{name: -1, phone: -1, location: -1, priority: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "name":
			named.name = i
		case "phone", "phone number", "phone_number":
			named.phone = i
		case "location":
			named.location = i
		case "priority":
			named.priority = i
		}
	}
	if named.name >= 0 {
		cols.name = named.name
	}
	if named.phone >= 0 {
		cols.phone = named.phone
	}
	if named.location >= 0 {
		cols.location = named.location
	}
	if named.priority >= 0 {
		cols.priority = named.priority
	}
	return cols
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseFlag(v string) bool {
	switch strings.ToLower(v) {
	case "yes", "y", "true", "1":
		return true
	}
	return false
}

// build validates input into a recipient ready for insertion
func (s *RegistryService) build(agencyID string, input RecipientInput) (*domain.Recipient, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrMissingName
	}

	e164, err := s.phones.Normalize(input.Phone)
	if err != nil {
		return nil, domain.ErrInvalidPhone.WithMessage("invalid phone %q", input.Phone).Wrap(err)
	}

	location := domain.NormalizeLocation(input.Location)
	if location == "" {
		return nil, domain.ErrMissingLocation
	}

	return &domain.Recipient{
		AgencyID: agencyID,
		Name:     name,
		Phone:    e164,
		Location: location,
		Priority: input.Priority,
	}, nil
}

func rejection(line int, err error) domain.ImportRejection {
	var derr *domain.Error
	if errors.As(err, &derr) {
		return domain.ImportRejection{Line: line, Reason: derr.Code, Detail: derr.Message}
	}
	return domain.ImportRejection{Line: line, Reason: domain.RejectMalformedRow, Detail: err.Error()}
}

// archive stores the raw upload; failures are logged and never fail the import
func (s *RegistryService) archive(ctx context.Context, agencyID, filename string, data []byte) {
	if s.archiver == nil {
		return
	}

	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == "/" || name == "" {
		name = "upload.csv"
	}
	key := fmt.Sprintf("imports/%s/%s-%s", agencyID, time.Now().UTC().Format("20060102T150405Z"), name)

	if err := s.archiver.Archive(ctx, key, "text/csv", data); err != nil {
		s.log.Warn("Failed to archive upload",
			zap.String("agency_id", agencyID),
			zap.String("key", key),
			zap.Error(err))
	}
}
