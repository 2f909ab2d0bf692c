package service

import (
	"context"
	"strings"
	"time"

	documentdomain "github.com/smj9504/mj-estimate/internal/document/domain"
	"github.com/smj9504/mj-estimate/internal/document/format"
	"github.com/smj9504/mj-estimate/pkg/db"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// AllocateNumber composes the next unique document number for (docType,
// companyCode). The sequence comes from an atomic counter, so concurrent
// calls always observe distinct values; the latest-record re-check and the
// bounded retry loop only guard against collisions with legacy records that
// predate the counter.
func (s *Service) AllocateNumber(ctx context.Context, docType documentdomain.DocumentType, clientAddress, companyCode string) (string, error) {
	companyCode = strings.ToUpper(strings.TrimSpace(companyCode))
	if !validCompanyCode(companyCode) {
		return "", documentdomain.ErrInvalidCompanyCode
	}

	cfg := s.numbering.Current()
	prefix := format.PrefixFor(docType, cfg.Prefixes)
	if !docType.Valid() {
		// Unknown types indicate a caller bug, but allocation must not fail.
		s.log.Warn("unknown document type, using fallback prefix",
			zap.String("document_type", string(docType)),
			zap.String("prefix", prefix),
		)
	}
	streetToken := format.StreetToken(clientAddress)

	for attempt := 0; attempt < cfg.MaxAllocationAttempts; attempt++ {
		seq, err := s.nextSequence(ctx, docType, prefix, companyCode)
		if err != nil {
			return "", err
		}

		candidate := format.Compose(prefix, streetToken, companyCode, seq)

		exists, err := s.repo.ExistsLatest(ctx, docType, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}

		s.metrics.RecordAllocationRetry(ctx, string(docType))
		s.log.Warn("document number collision, retrying",
			zap.String("candidate", candidate),
			zap.Int("attempt", attempt+1),
		)
	}

	s.metrics.RecordAllocationConflict(ctx, string(docType))
	return "", documentdomain.ErrAllocationConflict
}

// Create allocates a number and persists version 1 of the document. The
// partial unique index on latest numbers backstops the allocator; a
// duplicate-key insert re-enters the allocation loop instead of failing the
// request outright.
func (s *Service) Create(ctx context.Context, req documentdomain.CreateRequest) (*documentdomain.Document, error) {
	cfg := s.numbering.Current()

	for attempt := 0; attempt < cfg.MaxAllocationAttempts; attempt++ {
		number, err := s.AllocateNumber(ctx, req.Type, req.ClientAddress, req.CompanyCode)
		if err != nil {
			return nil, err
		}

		doc := &documentdomain.Document{
			ID:            s.genID.Generate(),
			Type:          req.Type,
			Number:        number,
			Version:       1,
			IsLatest:      true,
			CompanyCode:   strings.ToUpper(strings.TrimSpace(req.CompanyCode)),
			ClientAddress: strings.TrimSpace(req.ClientAddress),
			ClientName:    strings.TrimSpace(req.ClientName),
			Status:        documentdomain.DocumentStatusDraft,
			Metadata:      datatypes.JSONMap(req.Metadata),
			CreatedAt:     time.Now().UTC(),
			UpdatedAt:     time.Now().UTC(),
		}

		err = s.repo.Create(ctx, doc)
		if err == nil {
			s.metrics.RecordDocumentAllocated(ctx, string(req.Type))
			s.log.Info("document created",
				zap.String("number", doc.Number),
				zap.String("document_type", string(doc.Type)),
			)
			return doc, nil
		}
		if !db.IsDuplicateKeyErr(err) {
			return nil, err
		}

		s.metrics.RecordAllocationRetry(ctx, string(req.Type))
		s.log.Warn("document insert hit unique index, reallocating",
			zap.String("number", number),
			zap.Int("attempt", attempt+1),
		)
	}

	s.metrics.RecordAllocationConflict(ctx, string(req.Type))
	return nil, documentdomain.ErrAllocationConflict
}

// nextSequence bumps the atomic counter, seeding a fresh counter from the
// count of legacy records matching PREFIX-%-COMPANY-% so numbering continues
// where the historical data left off.
func (s *Service) nextSequence(ctx context.Context, docType documentdomain.DocumentType, prefix, companyCode string) (int64, error) {
	pattern := prefix + "-%-" + companyCode + "-%"
	return s.repo.NextSequence(ctx, docType, companyCode, func(ctx context.Context) (int64, error) {
		return s.repo.CountMatching(ctx, docType, pattern)
	})
}
