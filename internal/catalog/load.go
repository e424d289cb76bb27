package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	domain "github.com/donaldgifford/terrenos/pkg/types"
)

const defaultFetchTimeout = 30 * time.Second

// ListingsPayload is the listings document produced by the aggregator.
type ListingsPayload struct {
	GeneratedFrom string           `json:"generated_from"`
	Listings      []domain.Listing `json:"listings"`
}

type loader struct {
	httpClient *http.Client
}

// LoadOption configures Load.
type LoadOption func(*loader)

// WithHTTPClient sets the client used for http(s) locations.
func WithHTTPClient(c *http.Client) LoadOption {
	return func(l *loader) {
		l.httpClient = c
	}
}

// Load fetches the listings and sources payloads concurrently and builds a
// catalog once both have been decoded. If either fetch or decode fails no
// catalog is returned. A location is a filesystem path or an http(s) URL.
func Load(ctx context.Context, listingsLocation, sourcesLocation string, opts ...LoadOption) (*Catalog, error) {
	ld := &loader{httpClient: &http.Client{Timeout: defaultFetchTimeout}}
	for _, opt := range opts {
		opt(ld)
	}

	var (
		payload ListingsPayload
		sources []domain.Source
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := ld.fetch(gctx, listingsLocation)
		if err != nil {
			return fmt.Errorf("fetching listings: %w", err)
		}
		p, err := DecodeListings(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("decoding listings from %s: %w", listingsLocation, err)
		}
		payload = p
		return nil
	})
	g.Go(func() error {
		data, err := ld.fetch(gctx, sourcesLocation)
		if err != nil {
			return fmt.Errorf("fetching sources: %w", err)
		}
		s, err := DecodeSources(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("decoding sources from %s: %w", sourcesLocation, err)
		}
		sources = s
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return New(payload.Listings, sources, WithGeneratedFrom(payload.GeneratedFrom)), nil
}

// DecodeListings decodes and validates a listings payload. Every invalid
// listing is reported, with its index, in one joined error.
func DecodeListings(r io.Reader) (ListingsPayload, error) {
	var p ListingsPayload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return ListingsPayload{}, err
	}
	if err := ValidateListings(p.Listings); err != nil {
		return ListingsPayload{}, err
	}
	return p, nil
}

// ValidateListings checks every listing and joins the violations. Ids must
// be unique, including the rank ids New assigns to listings without one.
func ValidateListings(listings []domain.Listing) error {
	var errs []error
	seen := make(map[string]int, len(listings))
	for i := range listings {
		if err := listings[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("listing %d (%s): %w", i, listings[i].ID, err))
		}
		id := effectiveID(&listings[i], i)
		if first, dup := seen[id]; dup {
			errs = append(errs, fmt.Errorf("listing %d (%s): duplicate id, first used by listing %d", i, id, first))
			continue
		}
		seen[id] = i
	}
	return errors.Join(errs...)
}

// DecodeSources decodes a sources payload. Every source needs a name and a
// fallback url.
func DecodeSources(r io.Reader) ([]domain.Source, error) {
	var sources []domain.Source
	if err := json.NewDecoder(r).Decode(&sources); err != nil {
		return nil, err
	}

	var errs []error
	for i := range sources {
		if strings.TrimSpace(sources[i].Name) == "" {
			errs = append(errs, fmt.Errorf("source %d: name is required", i))
		}
		if strings.TrimSpace(sources[i].URL) == "" {
			errs = append(errs, fmt.Errorf("source %d (%s): url is required", i, sources[i].Name))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return sources, nil
}

func (ld *loader) fetch(ctx context.Context, location string) ([]byte, error) {
	if !isHTTP(location) {
		data, err := os.ReadFile(location) //nolint:gosec // location from operator config
		if err != nil {
			return nil, err
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := ld.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %d", location, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return data, nil
}

func isHTTP(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
