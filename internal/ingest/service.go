package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/tokopintar/catalog-backend/pkg/config"
	pkgerrors "github.com/tokopintar/catalog-backend/pkg/errors"
	"github.com/tokopintar/catalog-backend/pkg/imagekit"
	"github.com/tokopintar/catalog-backend/pkg/logger"
	"github.com/tokopintar/catalog-backend/pkg/metrics"
)

// Uploader is the media-host surface the pipeline depends on.
type Uploader interface {
	Upload(ctx context.Context, fileName string, data []byte) (*imagekit.UploadResult, error)
}

// IntentRecorder tracks uploads that are not yet owned by a product row.
type IntentRecorder interface {
	RecordPending(ctx context.Context, fileID, url, fileName string) error
}

// Uploaded is one hosted image produced by the pipeline, in request order.
type Uploaded struct {
	URL         string
	FileID      string
	FileName    string
	Position    int
	Placeholder bool
}

// Service runs the image ingestion pipeline for product creation: every
// reference in the request becomes exactly one hosted image, or the whole
// request fails.
type Service struct {
	uploader Uploader
	intents  IntentRecorder
	fetcher  *http.Client
	metrics  *metrics.IngestMetrics
	logg     *logger.Logger

	localFilePolicy string
	maxImageBytes   int64
	now             func() time.Time
}

// NewService wires the pipeline. The metrics and intent recorder are optional.
func NewService(uploader Uploader, intents IntentRecorder, m *metrics.IngestMetrics, cfg config.IngestConfig, logg *logger.Logger) (*Service, error) {
	if uploader == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "uploader is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}

	fetchTimeout := cfg.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = 15 * time.Second
	}
	maxBytes := cfg.MaxImageBytes
	if maxBytes <= 0 {
		maxBytes = 20 << 20
	}
	policy := cfg.LocalFilePolicy
	if policy == "" {
		policy = config.LocalFilePolicyPlaceholder
	}

	return &Service{
		uploader:        uploader,
		intents:         intents,
		fetcher:         &http.Client{Timeout: fetchTimeout},
		metrics:         m,
		logg:            logg,
		localFilePolicy: policy,
		maxImageBytes:   maxBytes,
		now:             time.Now,
	}, nil
}

// IngestAll processes the references sequentially. The first failing element
// aborts the whole batch; its one-based index is reported in the error
// details. An empty reference list yields a single placeholder at position 0.
func (s *Service) IngestAll(ctx context.Context, productName string, refs []string) ([]Uploaded, error) {
	if len(refs) == 0 {
		return s.ingestNoImages(ctx, productName)
	}

	uploaded := make([]Uploaded, 0, len(refs))
	for i, ref := range refs {
		item, err := s.ingestOne(ctx, productName, ref, i)
		if err != nil {
			ictx := s.logg.WithField(ctx, "image_index", i)
			s.logg.Error(ictx, "image ingestion failed", err)
			return nil, elementError(i, err)
		}
		uploaded = append(uploaded, *item)
	}
	return uploaded, nil
}

func (s *Service) ingestOne(ctx context.Context, productName, ref string, index int) (*Uploaded, error) {
	source, err := ParseSource(ref)
	if err != nil {
		s.metrics.IncFailure("parse")
		return nil, err
	}

	switch source.Kind {
	case SourceEmbedded:
		fileName := s.fileName(productName, "", index, source.Ext)
		return s.upload(ctx, source.Kind, fileName, source.Data, false, index)

	case SourceExternalURL:
		data, err := s.fetch(ctx, source.URL)
		if err != nil {
			s.metrics.IncFailure("fetch")
			return nil, err
		}
		fileName := s.fileName(productName, "", index, "jpg")
		return s.upload(ctx, source.Kind, fileName, data, false, index)

	case SourceLocalFile:
		if s.localFilePolicy == config.LocalFilePolicyReject {
			s.metrics.IncFailure("local_file")
			return nil, pkgerrors.New(pkgerrors.CodeImageUpload, "device-local file references are not accepted")
		}
		// The server cannot read a device path, so the slot gets the
		// placeholder image instead.
		fileName := s.fileName(productName, "mobile", index, "png")
		item, err := s.upload(ctx, source.Kind, fileName, PlaceholderPayload(), true, index)
		if err != nil {
			return nil, err
		}
		s.metrics.IncPlaceholder()
		return item, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "unrecognized image reference format")
}

func (s *Service) ingestNoImages(ctx context.Context, productName string) ([]Uploaded, error) {
	fileName := fmt.Sprintf("%s_no_images_%d.png", sanitizeProductName(productName), s.now().UnixMilli())
	item, err := s.upload(ctx, SourceLocalFile, fileName, PlaceholderPayload(), true, 0)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "uploading default product image")
	}
	s.metrics.IncPlaceholder()
	s.logg.Info(s.logg.WithField(ctx, "file_name", fileName), "no images provided, uploaded placeholder")
	return []Uploaded{*item}, nil
}

func (s *Service) upload(ctx context.Context, kind SourceKind, fileName string, data []byte, placeholder bool, index int) (*Uploaded, error) {
	start := s.now()
	result, err := s.uploader.Upload(ctx, fileName, data)
	if err != nil {
		s.metrics.IncFailure("upload")
		return nil, pkgerrors.Wrap(pkgerrors.CodeImageUpload, err, "uploading image to media host")
	}
	s.metrics.IncUpload(string(kind))
	s.metrics.ObserveUploadDuration(string(kind), s.now().Sub(start))

	s.recordIntent(ctx, result)

	return &Uploaded{
		URL:         result.URL,
		FileID:      result.FileID,
		FileName:    result.Name,
		Position:    index,
		Placeholder: placeholder,
	}, nil
}

// recordIntent is best effort: a missed record only delays orphan cleanup.
func (s *Service) recordIntent(ctx context.Context, result *imagekit.UploadResult) {
	if s.intents == nil {
		return
	}
	if err := s.intents.RecordPending(ctx, result.FileID, result.URL, result.Name); err != nil {
		wctx := s.logg.WithField(ctx, "file_id", result.FileID)
		s.logg.Warn(wctx, "recording upload intent failed")
	}
}

func (s *Service) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeImageUpload, err, "building image fetch request")
	}

	resp, err := s.fetcher.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeImageUpload, err, "fetching external image")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.New(pkgerrors.CodeImageUpload, fmt.Sprintf("external image returned %s", resp.Status))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxImageBytes+1))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeImageUpload, err, "reading external image")
	}
	if int64(len(data)) > s.maxImageBytes {
		return nil, pkgerrors.New(pkgerrors.CodeImageUpload, "external image exceeds the size limit")
	}
	if len(data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeImageUpload, "external image is empty")
	}
	return data, nil
}

func (s *Service) fileName(productName, tag string, index int, ext string) string {
	base := sanitizeProductName(productName)
	ts := s.now().UnixMilli()
	if tag != "" {
		return fmt.Sprintf("%s_%s_%d_%d.%s", base, tag, ts, index, ext)
	}
	return fmt.Sprintf("%s_%d_%d.%s", base, ts, index, ext)
}

var productNameSanitizeRe = regexp.MustCompile(`[^a-zA-Z0-9]`)

func sanitizeProductName(name string) string {
	return productNameSanitizeRe.ReplaceAllString(name, "_")
}

func elementError(index int, err error) *pkgerrors.Error {
	wrapped := pkgerrors.As(err)
	if wrapped == nil {
		wrapped = pkgerrors.Wrap(pkgerrors.CodeImageUpload, err, "processing image")
	}
	return pkgerrors.Wrap(wrapped.Code(), wrapped, fmt.Sprintf("failed to upload image %d", index+1)).
		WithDetails(map[string]any{"index": index + 1})
}
