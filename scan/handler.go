// Package scan accepts a label photo, runs it through the vision extractor
// and merges the result into the current record.
package scan

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"auditform/metrics"
	"auditform/model"
	"auditform/record"
)

// ErrExtraction wraps every failure between receiving the image and
// applying the result.
var ErrExtraction = errors.New("extraction failed")

// ErrNoImage is returned when the request carries no image data.
var ErrNoImage = errors.New("no image in request")

const defaultMimeType = "image/jpeg"

// Extractor reads structured inspection data off a label image.
type Extractor interface {
	Extract(ctx context.Context, image []byte, mimeType string) (*model.ExtractionResult, error)
}

type scanResponse struct {
	Added    []model.InspectionItem `json:"added"`
	Header   model.ReportHeader     `json:"header"`
	TotalQty int                    `json:"totalQty"`
	// Suggestions holds catalog devices for added items with blank fields,
	// keyed by item id. They are not applied.
	Suggestions map[string]model.CatalogDevice `json:"suggestions,omitempty"`
}

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// ScanHandler handles POST /api/scan. The image arrives either as a
// multipart "image" file or as JSON {"image": "<base64 or data URL>"}.
func ScanHandler(s *record.Session, ex Extractor, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		image, mimeType, err := readImage(r)
		if err != nil {
			metrics.Scans.WithLabelValues("rejected").Inc()
			writeJSONError(w, "Invalid image upload: "+err.Error(), http.StatusBadRequest)
			return
		}

		if err := s.BeginExtraction(); err != nil {
			metrics.Scans.WithLabelValues("busy").Inc()
			writeJSONError(w, "A scan is already in progress", http.StatusConflict)
			return
		}
		defer s.EndExtraction()

		logger.Info("Scanning label", "bytes", len(image), "mime", mimeType)
		timer := metrics.NewTimer(metrics.ScanDuration)
		res, err := ex.Extract(r.Context(), image, mimeType)
		timer.ObserveDuration()

		var added []model.InspectionItem
		if err == nil {
			added, err = s.ApplyExtraction(res)
		}
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrExtraction, err)
			logger.Error("Label extraction failed", "error", err)
			metrics.Scans.WithLabelValues("failed").Inc()
			s.FailExtraction()
			writeJSONError(w, record.ExtractionFailedMessage, http.StatusBadGateway)
			return
		}

		metrics.Scans.WithLabelValues("ok").Inc()
		snap := s.Snapshot()
		metrics.ObserveRecord(len(snap.Items), snap.TotalQty)
		logger.Info("Label extracted", "items_added", len(added), "customer_code", snap.Header.CustomerCode)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(scanResponse{
			Added:       added,
			Header:      snap.Header,
			TotalQty:    snap.TotalQty,
			Suggestions: s.CatalogSuggestions(added),
		})
	}
}

func readImage(r *http.Request) ([]byte, string, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "multipart/form-data":
		return readMultipart(r)
	case "application/json", "":
		var body struct {
			Image    string `json:"image"`
			MimeType string `json:"mimeType"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, "", fmt.Errorf("decode body: %w", err)
		}
		data, mimeType, err := DecodeImageString(body.Image)
		if err != nil {
			return nil, "", err
		}
		if body.MimeType != "" && !strings.HasPrefix(body.Image, "data:") {
			mimeType = body.MimeType
		}
		return data, mimeType, nil
	default:
		return nil, "", fmt.Errorf("unsupported content type %q", ct)
	}
}

func readMultipart(r *http.Request) ([]byte, string, error) {
	file, hdr, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, "", ErrNoImage
		}
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, "", ErrNoImage
	}
	mimeType := hdr.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = defaultMimeType
	}
	return data, mimeType, nil
}

// DecodeImageString decodes plain base64 or a data URL
// ("data:image/png;base64,..."). The mime type of a data URL is returned;
// plain base64 is taken as JPEG.
func DecodeImageString(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, "", ErrNoImage
	}

	mimeType := defaultMimeType
	if strings.HasPrefix(s, "data:") {
		meta, payload, ok := strings.Cut(s[len("data:"):], ",")
		if !ok {
			return nil, "", errors.New("malformed data URL")
		}
		if mt, _, _ := strings.Cut(meta, ";"); mt != "" {
			mimeType = mt
		}
		s = payload
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
		if err != nil {
			return nil, "", fmt.Errorf("decode base64: %w", err)
		}
	}
	if len(data) == 0 {
		return nil, "", ErrNoImage
	}
	return data, mimeType, nil
}
