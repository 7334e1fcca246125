package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"storefront-api/internal/config"
	"storefront-api/pkg/logging"
)

// productFiles maps product identifiers to their backing PDF files. One
// product today; delivery is generic over this map.
var productFiles = map[string]string{
	"ielts-manual": "ielts-manual.pdf",
}

// ContentService resolves products to files and reads their bytes
type ContentService struct {
	assetsDir string
}

// NewContentService creates a new content service
func NewContentService() *ContentService {
	return &ContentService{assetsDir: config.AppConfig.AssetsDir}
}

// ResolveProduct returns the backing file name for a product. Unknown
// products surface as ErrUnknownProduct.
func (s *ContentService) ResolveProduct(productID string) (string, error) {
	fileName, ok := productFiles[productID]
	if !ok {
		return "", ErrUnknownProduct
	}
	return fileName, nil
}

// ReadProductFile loads the full bytes of a product's PDF. A resolvable
// product whose file is unreadable surfaces as ErrFileUnavailable; at this
// layer missing content is indistinguishable from misconfiguration, so it
// is logged loudly and reported generically.
func (s *ContentService) ReadProductFile(productID string) ([]byte, string, error) {
	fileName, err := s.ResolveProduct(productID)
	if err != nil {
		return nil, "", err
	}

	path := filepath.Join(s.assetsDir, fileName)
	data, err := os.ReadFile(path)
	if err != nil {
		logging.Errorf("Failed to read content file %s for product %s: %v", path, productID, err)
		return nil, "", fmt.Errorf("%w: %s", ErrFileUnavailable, productID)
	}

	return data, fileName, nil
}

// ByteRange is a clamped, inclusive byte range within a file
type ByteRange struct {
	Start int64
	End   int64
}

// Length returns the number of bytes the range covers
func (r ByteRange) Length() int64 {
	return r.End - r.Start + 1
}

// ParseRange parses a single-range header of the form "bytes=start-end"
// against a file of the given size. Multi-range requests are not supported;
// only the first start-end pair is honored and any further comma-separated
// ranges are ignored.
//
// Clamping rules: a missing, invalid, or negative start becomes 0; a
// missing or invalid end, or one past the last byte, becomes size-1; if the
// clamped end still precedes start, end is raised to start. A clamped range
// is therefore always satisfiable and never rejected. Only a header that
// does not start with "bytes=" is malformed (ErrMalformedRange).
func ParseRange(header string, size int64) (ByteRange, error) {
	const bytesPrefix = "bytes="
	if !strings.HasPrefix(header, bytesPrefix) {
		return ByteRange{}, ErrMalformedRange
	}

	spec := strings.TrimPrefix(header, bytesPrefix)
	if i := strings.Index(spec, ","); i >= 0 {
		spec = spec[:i]
	}

	startStr, endStr, _ := strings.Cut(spec, "-")

	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil || start < 0 {
		start = 0
	}

	end := size - 1
	if endStr != "" {
		parsed, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil || parsed >= size {
			end = size - 1
		} else {
			end = parsed
		}
	}

	if end < start {
		end = start
	}

	return ByteRange{Start: start, End: end}, nil
}

// Slice returns the file bytes the range covers. A degenerate range past
// the end of the file yields an empty slice.
func (r ByteRange) Slice(data []byte) []byte {
	size := int64(len(data))
	start := r.Start
	if start > size {
		start = size
	}
	end := r.End + 1
	if end > size {
		end = size
	}
	return data[start:end]
}
