// Package event is the typed catalog layer over the request pipeline: thin
// fetchers for the conference program, one per screen of the companion app.
package event

import (
	"context"
	"net/url"
	"strconv"

	"github.com/scibiz/eventapp/apiclient"
)

const listPageSize = 10

// Service fetches catalog resources. It holds no state beyond the client.
type Service struct {
	api *apiclient.Client
}

func NewService(api *apiclient.Client) *Service {
	return &Service{api: api}
}

// Schedules returns the full program ordered by day.
func (s *Service) Schedules(ctx context.Context) ([]Schedule, error) {
	query := url.Values{}
	query.Set("populate", "*")
	query.Set("sort", "order:asc")

	var res apiclient.Paginated[[]Schedule]
	if err := s.api.Get(ctx, "/schedules", query, &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

// LiveSessions returns the current live session entries.
func (s *Service) LiveSessions(ctx context.Context) ([]LiveSession, error) {
	var res apiclient.Paginated[[]LiveSession]
	if err := s.api.Get(ctx, "/sessions", nil, &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

// Speakers returns all speakers with their images.
func (s *Service) Speakers(ctx context.Context) ([]Speaker, error) {
	query := url.Values{}
	query.Set("populate", "image")

	var res apiclient.Paginated[[]Speaker]
	if err := s.api.Get(ctx, "/speakers", query, &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

// Sponsors returns all sponsors with their images.
func (s *Service) Sponsors(ctx context.Context) ([]Sponsor, error) {
	query := url.Values{}
	query.Set("populate", "image")

	var res apiclient.Paginated[[]Sponsor]
	if err := s.api.Get(ctx, "/sponsors", query, &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

// Abstracts returns one page of abstracts with the pagination envelope so
// callers can page through.
func (s *Service) Abstracts(ctx context.Context, page int) (apiclient.Paginated[[]Abstract], error) {
	query := url.Values{}
	query.Set("populate", "*")
	addPagination(query, page)

	var res apiclient.Paginated[[]Abstract]
	if err := s.api.Get(ctx, "/abstracts", query, &res); err != nil {
		return apiclient.Paginated[[]Abstract]{}, err
	}
	return res, nil
}

// Announcements returns one page of announcements with the pagination
// envelope.
func (s *Service) Announcements(ctx context.Context, page int) (apiclient.Paginated[[]Announcement], error) {
	query := url.Values{}
	addPagination(query, page)

	var res apiclient.Paginated[[]Announcement]
	if err := s.api.Get(ctx, "/announcements", query, &res); err != nil {
		return apiclient.Paginated[[]Announcement]{}, err
	}
	return res, nil
}

func addPagination(query url.Values, page int) {
	if page < 1 {
		page = 1
	}
	query.Set("pagination[page]", strconv.Itoa(page))
	query.Set("pagination[pageSize]", strconv.Itoa(listPageSize))
}
