package books

import (
	"context"
	"fmt"
	"strings"

	"mediascout/services/fetch"
)

// Service fronts the book metadata providers: Open Library (primary) and
// Google Books (secondary, also the purchase-link source).
type Service struct {
	openlib *openLibraryClient
	google  *googleBooksClient
}

func NewService(googleAPIKey string, fetcher *fetch.Client) *Service {
	return &Service{
		openlib: newOpenLibraryClient(fetcher),
		google:  newGoogleBooksClient(googleAPIKey, fetcher),
	}
}

// BookInfo is the Open Library projection.
type BookInfo struct {
	Title       string
	Author      string
	ISBN        string
	Subjects    []string
	PublishYear int
	CoverURL    string
}

// VolumeInfo is the Google Books projection. BuyLink, when present, is a Play
// Store deep link used as a purchase offer.
type VolumeInfo struct {
	Title       string
	Author      string
	ISBN        string
	Categories  []string
	PublishYear string // raw date string, merge coerces
	Pages       int
	Description string
	CoverURL    string
	BuyLink     string
	Price       string
}

// Book resolves a book against Open Library.
func (s *Service) Book(ctx context.Context, title, author, isbn string) (*BookInfo, error) {
	resp, err := s.openlib.search(ctx, title, author, isbn)
	if err != nil {
		return nil, err
	}

	best := resp.Docs[0]
	info := &BookInfo{
		Title:       best.Title,
		PublishYear: best.FirstPublishYear,
		CoverURL:    openLibraryCoverURL(best.CoverID),
	}
	if len(best.AuthorName) > 0 {
		info.Author = best.AuthorName[0]
	}
	if len(best.ISBN) > 0 {
		info.ISBN = best.ISBN[0]
	}
	// Open Library subject lists run into the hundreds; keep the head.
	for i, subject := range best.Subject {
		if i >= 8 {
			break
		}
		info.Subjects = append(info.Subjects, subject)
	}
	return info, nil
}

// Volume resolves a book against Google Books.
func (s *Service) Volume(ctx context.Context, title, author, isbn string) (*VolumeInfo, error) {
	resp, err := s.google.search(ctx, title, author, isbn)
	if err != nil {
		return nil, err
	}

	best := resp.Items[0]
	vi := best.VolumeInfo
	info := &VolumeInfo{
		Title:       vi.Title,
		Categories:  vi.Categories,
		PublishYear: vi.PublishedDate,
		Pages:       vi.PageCount,
		Description: vi.Description,
		CoverURL:    vi.ImageLinks.Thumbnail,
	}
	if len(vi.Authors) > 0 {
		info.Author = vi.Authors[0]
	}
	for _, id := range vi.IndustryIdentifiers {
		if id.Type == "ISBN_13" {
			info.ISBN = id.Identifier
			break
		}
		if id.Type == "ISBN_10" && info.ISBN == "" {
			info.ISBN = id.Identifier
		}
	}
	if strings.EqualFold(best.SaleInfo.Saleability, "FOR_SALE") && best.SaleInfo.BuyLink != "" {
		info.BuyLink = best.SaleInfo.BuyLink
		if best.SaleInfo.ListPrice.Amount > 0 {
			info.Price = fmt.Sprintf("%.2f %s", best.SaleInfo.ListPrice.Amount, best.SaleInfo.ListPrice.CurrencyCode)
		}
	}
	return info, nil
}
