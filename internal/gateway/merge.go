package gateway

import (
	"context"
	"log"

	"github.com/google/uuid"

	"authorsite/internal/book"
	"authorsite/internal/platform/openlibrary"
)

// merge combines the works listing with the search hits. Works are walked
// in order, each one optionally enriched by a bounded detail fetch, then
// search hits whose title was never seen are appended. The first occurrence
// of a normalized title always wins.
func (g *Gateway) merge(ctx context.Context, works []openlibrary.Work, hits []openlibrary.SearchHit) ([]book.Record, error) {
	hitByTitle := make(map[string]openlibrary.SearchHit, len(hits))
	for _, hit := range hits {
		if hit.Title == "" {
			continue
		}
		key := book.NormalizeTitle(hit.Title)
		if _, ok := hitByTitle[key]; !ok {
			hitByTitle[key] = hit
		}
	}

	seen := make(map[string]bool, len(works))
	records := make([]book.Record, 0, len(works)+len(hits))
	shapeless := 0

	for _, work := range works {
		if work.Title == "" {
			shapeless++
			continue
		}
		key := book.NormalizeTitle(work.Title)
		if seen[key] {
			continue
		}
		seen[key] = true

		var detail *openlibrary.WorkDetail
		if g.fetchDetails && work.Key != "" {
			detailCtx, cancel := context.WithTimeout(ctx, g.detailTimeout)
			d, err := g.client.WorkDetail(detailCtx, work.Key)
			cancel()
			if err != nil {
				// The record just lacks the enrichment.
				log.Printf("gateway: detail fetch for %s failed: %v", work.Key, err)
			} else {
				detail = d
			}
		}

		hit, hasHit := hitByTitle[key]
		records = append(records, enhance(work, detail, hit, hasHit))
	}

	if len(works) > 0 && shapeless == len(works) {
		return nil, &MergeError{Reason: "no usable titles in works response"}
	}

	// Search-only entries must not be shadowed by the works listing.
	for _, hit := range hits {
		if hit.Title == "" {
			continue
		}
		key := book.NormalizeTitle(hit.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		records = append(records, recordFromHit(hit))
	}

	return records, nil
}

// enhance builds the merged record for one work. Field precedence is
// search-hit > work-detail > bare work: the search index tends to carry the
// cleaner library-catalog metadata, so it wins wherever it has a value.
func enhance(work openlibrary.Work, detail *openlibrary.WorkDetail, hit openlibrary.SearchHit, hasHit bool) book.Record {
	rec := book.Record{
		ID:    uuid.New().String(),
		Key:   work.Key,
		Title: work.Title,
	}

	rec.Subtitle = work.Subtitle
	rec.Description = string(work.Description)
	rec.Subjects = work.Subjects
	rec.FirstPublishYear = parseYear(work.FirstPublishDate)
	if len(work.Covers) > 0 {
		rec.CoverID = work.Covers[0]
	}

	if detail != nil {
		if detail.Subtitle != "" {
			rec.Subtitle = detail.Subtitle
		}
		if detail.Description != "" {
			rec.Description = string(detail.Description)
		}
		if len(detail.Subjects) > 0 {
			rec.Subjects = detail.Subjects
		}
		if rec.CoverID == 0 && len(detail.Covers) > 0 {
			rec.CoverID = detail.Covers[0]
		}
	}

	if hasHit {
		if hit.Key != "" {
			rec.Key = hit.Key
		}
		if hit.Subtitle != "" {
			rec.Subtitle = hit.Subtitle
		}
		if hit.FirstPublishYear != 0 {
			rec.FirstPublishYear = hit.FirstPublishYear
		}
		if hit.CoverID != 0 {
			rec.CoverID = hit.CoverID
		}
		if len(hit.Subjects) > 0 {
			rec.Subjects = hit.Subjects
		}
		rec.EditionCount = hit.EditionCount
		rec.Languages = hit.Languages
		rec.Publishers = hit.Publishers
		rec.ISBNs = hit.ISBNs
		rec.AuthorKeys = hit.AuthorKeys
		rec.AuthorNames = hit.AuthorNames
	}

	return rec
}

// parseYear pulls the first four-digit year out of a publish date such as
// "2012", "July 2012" or "2012-09-27". Returns 0 when none is found.
func parseYear(date string) int {
	run := 0
	value := 0
	for i := 0; i < len(date); i++ {
		c := date[i]
		if c >= '0' && c <= '9' {
			run++
			value = value*10 + int(c-'0')
			if run == 4 {
				if i+1 < len(date) && date[i+1] >= '0' && date[i+1] <= '9' {
					// Longer digit run, not a year.
					run = 0
					value = 0
					for i+1 < len(date) && date[i+1] >= '0' && date[i+1] <= '9' {
						i++
					}
					continue
				}
				return value
			}
			continue
		}
		run = 0
		value = 0
	}
	return 0
}
