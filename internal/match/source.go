package match

import (
	"context"
	"fmt"
	"net/url"

	"github.com/suxessedu/suxess-web/internal/api"
	"github.com/suxessedu/suxess-web/internal/remote"
	"github.com/suxessedu/suxess-web/internal/teacher"
)

type apiSource struct {
	client api.Caller
}

// NewSource reads suggestions and the roster from the admin API.
func NewSource(client api.Caller) Source {
	return &apiSource{client: client}
}

func (s *apiSource) Suggestions(ctx context.Context, requestID api.ID) ([]Suggestion, error) {
	return remote.List[Suggestion](ctx, s.client, "/admin/requests/"+url.PathEscape(requestID.String())+"/suggest-teachers")
}

func (s *apiSource) Roster(ctx context.Context) ([]teacher.Teacher, error) {
	return remote.List[teacher.Teacher](ctx, s.client, "/admin/teachers")
}

type matchBody struct {
	RequestID api.ID `json:"requestId"`
	TeacherID api.ID `json:"teacherId"`
}

func (s *apiSource) Match(ctx context.Context, requestID, teacherID api.ID) error {
	if err := s.client.Post(ctx, "/admin/match", matchBody{RequestID: requestID, TeacherID: teacherID}, nil); err != nil {
		return fmt.Errorf("match request %s to teacher %s: %w", requestID, teacherID, err)
	}
	return nil
}
