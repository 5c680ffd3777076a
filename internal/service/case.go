package service

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/casetrack/casetrack/internal/metrics"
	"github.com/casetrack/casetrack/internal/model"
	"github.com/casetrack/casetrack/internal/repository"
	"github.com/casetrack/casetrack/internal/storage"
	"github.com/casetrack/casetrack/internal/validation"
)

const (
	msgRequired   = "this field is required."
	msgInvalidInt = "a valid integer is required."
	maxTitleLen   = 200
)

func invalidPKMessage(v any) string {
	return fmt.Sprintf("invalid pk \"%v\" - object does not exist.", v)
}

// CaseInput is a case submission as received, before any parsing.
type CaseInput struct {
	Title       string
	Description string
	Reporter    string
	CaseType    string
	Location    string
	Status      string
	Images      []*multipart.FileHeader
	// CreatedBy is the signed-in submitter, if any.
	CreatedBy *int64
}

type CaseService struct {
	caseRepository     repository.CaseRepository
	userRepository     repository.UserRepository
	caseTypeRepository repository.LookupRepository
	statusRepository   repository.LookupRepository
	storage            storage.Storage
	metrics            *metrics.Collector
	now                func() time.Time
}

func NewCaseService(
	caseRepository repository.CaseRepository,
	userRepository repository.UserRepository,
	caseTypeRepository repository.LookupRepository,
	statusRepository repository.LookupRepository,
	storage storage.Storage,
	metrics *metrics.Collector,
) *CaseService {
	return &CaseService{
		caseRepository:     caseRepository,
		userRepository:     userRepository,
		caseTypeRepository: caseTypeRepository,
		statusRepository:   statusRepository,
		storage:            storage,
		metrics:            metrics,
		now:                time.Now,
	}
}

// Create validates the submission as a whole and then stores the case and
// its images in one transaction. Validation failures come back as
// model.FieldErrors; anything else as *model.OperationError, after rolling
// back the rows and deleting any blobs already written.
func (s *CaseService) Create(ctx context.Context, in CaseInput) (*model.CaseDetail, error) {
	c, err := s.validate(ctx, in)
	if err != nil {
		var fields model.FieldErrors
		if errors.As(err, &fields) {
			s.metrics.IngestionFailed("validation")
			return nil, err
		}
		s.metrics.IngestionFailed("error")
		return nil, &model.OperationError{Detail: "failed to validate case", Err: err}
	}

	now := s.now().UTC()
	c.CreatedAt = now

	var (
		images []model.CaseImage
		saved  []string
		detail = "failed to save case"
	)
	err = s.caseRepository.InTx(ctx, func(w repository.CaseWriter) error {
		err := w.InsertCase(ctx, c)
		if err != nil {
			return err
		}

		for _, header := range in.Images {
			img := &model.CaseImage{CaseID: c.ID, UploadedAt: now}
			err = w.InsertImage(ctx, img)
			if err != nil {
				detail = "failed to save case image"
				return err
			}

			key := fmt.Sprintf("case_images/%d/%d%s", c.ID, img.ID, validation.ImageExtension(header))
			err = s.saveBlob(ctx, key, header)
			if err != nil {
				detail = "failed to store case image"
				return err
			}
			saved = append(saved, key)

			err = w.SetImageKey(ctx, img.ID, key)
			if err != nil {
				detail = "failed to save case image"
				return err
			}
			img.Image = key
			images = append(images, *img)
		}
		return nil
	})
	if err != nil {
		s.discardBlobs(ctx, saved)
		s.metrics.IngestionFailed("error")
		return nil, &model.OperationError{Detail: detail, Err: err}
	}

	s.metrics.CaseCreated(len(images))
	slog.InfoContext(ctx, "case created", "case_id", c.ID, "reporter_id", c.ReporterID, "images", len(images))

	if images == nil {
		images = []model.CaseImage{}
	}
	return &model.CaseDetail{Case: *c, Images: images}, nil
}

// validate collects every field problem before returning.
func (s *CaseService) validate(ctx context.Context, in CaseInput) (*model.Case, error) {
	fields := model.FieldErrors{}
	c := &model.Case{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		CreatedByID: in.CreatedBy,
	}

	if c.Title == "" {
		fields.Add("title", msgRequired)
	} else if len([]rune(c.Title)) > maxTitleLen {
		fields.Add("title", fmt.Sprintf("ensure this field has no more than %d characters.", maxTitleLen))
	}
	if c.Description == "" {
		fields.Add("description", msgRequired)
	}

	reporterID, err := s.reference(ctx, fields, "reporter", in.Reporter, true, s.userRepository.Exists)
	if err != nil {
		return nil, err
	}
	if reporterID != nil {
		c.ReporterID = *reporterID
	}

	c.CaseTypeID, err = s.reference(ctx, fields, "case_type", in.CaseType, true, s.caseTypeRepository.Exists)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Status) == "" {
		status := model.DefaultCaseStatusID
		c.StatusID = &status
	} else {
		c.StatusID, err = s.reference(ctx, fields, "status", in.Status, false, s.statusRepository.Exists)
		if err != nil {
			return nil, err
		}
	}

	if location := strings.TrimSpace(in.Location); location != "" {
		c.Location = &location
	}

	for _, header := range in.Images {
		err := validation.ValidateFile(header, validation.ImageConstraints)
		if err != nil {
			fields.Add("images", fmt.Sprintf("%s: %s", header.Filename, err))
		}
	}

	if err := fields.OrNil(); err != nil {
		return nil, err
	}
	return c, nil
}

// reference parses raw as an id and checks that it exists. Field problems are
// recorded in fields; only datastore failures are returned.
func (s *CaseService) reference(
	ctx context.Context,
	fields model.FieldErrors,
	key, raw string,
	required bool,
	exists func(context.Context, int64) (bool, error),
) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			fields.Add(key, msgRequired)
		}
		return nil, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fields.Add(key, msgInvalidInt)
		return nil, nil
	}

	ok, err := exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		fields.Add(key, invalidPKMessage(raw))
		return nil, nil
	}

	return &id, nil
}

func (s *CaseService) saveBlob(ctx context.Context, key string, header *multipart.FileHeader) error {
	f, err := header.Open()
	if err != nil {
		return errors.Wrap(err, "open upload")
	}
	defer func() { _ = f.Close() }()

	return s.storage.Save(ctx, key, f)
}

// discardBlobs removes blobs written by a rolled back ingestion.
func (s *CaseService) discardBlobs(ctx context.Context, keys []string) {
	// the request context may already be cancelled
	cleanupCtx := context.WithoutCancel(ctx)
	for _, key := range keys {
		err := s.storage.Delete(cleanupCtx, key)
		if err != nil {
			slog.ErrorContext(ctx, "failed to delete blob during cleanup", "error", err, "key", key)
		}
	}
}

// Get returns a case with its images and their URLs.
func (s *CaseService) Get(ctx context.Context, id int64) (*model.CaseDetail, error) {
	c, err := s.caseRepository.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	images, err := s.caseRepository.Images(ctx, id)
	if err != nil {
		return nil, err
	}

	for i := range images {
		url, err := s.storage.URL(ctx, images[i].Image)
		if err != nil {
			slog.WarnContext(ctx, "failed to resolve image url", "error", err, "key", images[i].Image)
			continue
		}
		images[i].URL = url
	}

	return &model.CaseDetail{Case: *c, Images: images}, nil
}
