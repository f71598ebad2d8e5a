package service

import (
	"errors"
	"testing"

	"github.com/sf-developer/video-player/internal/model"
)

func TestClampCommentLimit(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, DefaultCommentLimit},
		{-1, DefaultCommentLimit},
		{25, 25},
		{MaxCommentLimit, MaxCommentLimit},
		{MaxCommentLimit + 50, MaxCommentLimit},
	}
	for _, tt := range tests {
		if got := ClampCommentLimit(tt.in); got != tt.want {
			t.Errorf("ClampCommentLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCheckCommentPolicy(t *testing.T) {
	anon := Caller{}
	member := Caller{UserID: 12}

	tests := []struct {
		name   string
		opts   *model.CommentsOptions
		caller Caller
		want   error
	}{
		{"no options", nil, anon, nil},
		{"open to all", &model.CommentsOptions{WhoCanSubmit: "all"}, anon, nil},
		{"closed", &model.CommentsOptions{IsClosed: true}, member, ErrCommentsClosed},
		{"logged-in only, anonymous", &model.CommentsOptions{WhoCanSubmit: "loggedin"}, anon, ErrLoginRequired},
		{"logged-in only, member", &model.CommentsOptions{WhoCanSubmit: "loggedin"}, member, nil},
		{"closed wins over login", &model.CommentsOptions{IsClosed: true, WhoCanSubmit: "loggedin"}, anon, ErrCommentsClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckCommentPolicy(tt.opts, tt.caller)
			if !errors.Is(err, tt.want) {
				t.Errorf("CheckCommentPolicy() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNestReplies(t *testing.T) {
	top := []model.Comment{{ID: 3}, {ID: 1}}
	replies := []model.Comment{
		{ID: 4, ParentID: 1},
		{ID: 5, ParentID: 3},
		{ID: 6, ParentID: 1},
		{ID: 9, ParentID: 99},
	}

	got := NestReplies(top, replies)

	if len(got) != 2 || got[0].ID != 3 || got[1].ID != 1 {
		t.Fatalf("order changed: %+v", got)
	}
	if len(got[0].Replies) != 1 || got[0].Replies[0].ID != 5 {
		t.Errorf("comment 3 replies = %+v, want [5]", got[0].Replies)
	}
	if len(got[1].Replies) != 2 || got[1].Replies[0].ID != 4 || got[1].Replies[1].ID != 6 {
		t.Errorf("comment 1 replies = %+v, want [4 6]", got[1].Replies)
	}
}

func TestErrorTypes(t *testing.T) {
	step := &StepError{Step: StepInsertComment, Err: errors.New("boom")}
	if !errors.Is(step, step.Err) {
		t.Error("StepError should unwrap to its cause")
	}

	var up *UpstreamError
	wrapped := errors.Join(errors.New("ctx"), &UpstreamError{Status: 401, Code: "INVALID_TOKEN", Message: "bad"})
	if !errors.As(wrapped, &up) || up.Status != 401 {
		t.Errorf("errors.As(UpstreamError) = %v", up)
	}
}
