package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sf-developer/video-player/internal/model"
	"github.com/sf-developer/video-player/internal/repository"
)

// Comment page sizes.
const (
	DefaultCommentLimit = 10
	MaxCommentLimit     = 100
)

// Steps of a comment submission.
const StepInsertComment = "insert_comment"

// DefaultReplyAuthor signs admin replies that carry no author.
const DefaultReplyAuthor = "Administrator"

type CommentService struct {
	comments      *repository.CommentRepo
	events        *repository.EventRepo
	notifications *repository.NotificationRepo
	recorder      *EventService
	players       *PlayerService
	log           zerolog.Logger
}

func NewCommentService(
	comments *repository.CommentRepo,
	events *repository.EventRepo,
	notifications *repository.NotificationRepo,
	recorder *EventService,
	players *PlayerService,
	log zerolog.Logger,
) *CommentService {
	return &CommentService{
		comments:      comments,
		events:        events,
		notifications: notifications,
		recorder:      recorder,
		players:       players,
		log:           log,
	}
}

// ClampCommentLimit applies the default and maximum page size.
func ClampCommentLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultCommentLimit
	case limit > MaxCommentLimit:
		return MaxCommentLimit
	}
	return limit
}

// CheckCommentPolicy applies a player's comment options to a caller.
func CheckCommentPolicy(opts *model.CommentsOptions, caller Caller) error {
	if opts == nil {
		return nil
	}
	if opts.IsClosed {
		return ErrCommentsClosed
	}
	if opts.WhoCanSubmit == "loggedin" && caller.UserID == 0 {
		return ErrLoginRequired
	}
	return nil
}

// Add stores a viewer comment together with a comment event and a
// notification. The first failing step is returned as a StepError.
func (s *CommentService) Add(ctx context.Context, playerID int64, req model.CommentRequest, caller Caller) (*model.Comment, error) {
	p, err := s.players.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}

	var opts *model.CommentsOptions
	if p.Options.Comments != nil {
		opts = &p.Options.Comments.Value
	}
	if err := CheckCommentPolicy(opts, caller); err != nil {
		return nil, err
	}
	if err := s.recorder.checkBanned(ctx, caller, req.Author.Email); err != nil {
		return nil, err
	}

	c := &model.Comment{
		PlayerID:    playerID,
		UserID:      caller.UserID,
		AuthorName:  strings.TrimSpace(req.Author.Name),
		AuthorEmail: strings.TrimSpace(req.Author.Email),
		AuthorIP:    caller.IP,
		Content:     req.Comment,
		Approved:    model.CommentPending,
	}
	if opts != nil && opts.ImmediatelyApprove {
		c.Approved = model.CommentApproved
	}
	if err := s.comments.Insert(ctx, c); err != nil {
		return nil, &StepError{Step: StepInsertComment, Err: err}
	}

	e := s.recorder.NewEvent(ctx, playerID, model.EventComment, caller)
	if _, err := s.events.Insert(ctx, e); err != nil {
		return nil, &StepError{Step: StepInsertEvent, Err: err}
	}
	if _, err := s.notifications.Insert(ctx, nil, playerID, model.EventComment, caller.UserID); err != nil {
		return nil, &StepError{Step: StepInsertNotification, Err: err}
	}

	s.log.Info().Int64("player_id", playerID).Int64("comment_id", c.ID).Msg("comment added")
	return c, nil
}

// ListApproved returns a page of approved comments with their replies.
func (s *CommentService) ListApproved(ctx context.Context, playerID int64, limit, offset int) ([]model.Comment, error) {
	if _, err := s.players.Get(ctx, playerID); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}

	top, err := s.comments.ListApproved(ctx, playerID, ClampCommentLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(top))
	for _, c := range top {
		ids = append(ids, c.ID)
	}
	replies, err := s.comments.ListReplies(ctx, ids)
	if err != nil {
		return nil, err
	}
	return NestReplies(top, replies), nil
}

// ListAll returns every comment of non-banned authors with the title of its
// player. A playerID of 0 lists all players.
func (s *CommentService) ListAll(ctx context.Context, playerID int64) ([]model.Comment, error) {
	if playerID != 0 {
		if _, err := s.players.Get(ctx, playerID); err != nil {
			return nil, err
		}
	}

	comments, err := s.comments.ListAll(ctx, playerID)
	if err != nil {
		return nil, err
	}

	titles := make(map[int64]string)
	for i := range comments {
		pid := comments[i].PlayerID
		title, ok := titles[pid]
		if !ok {
			title, _, err = s.players.Title(ctx, pid)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			titles[pid] = title
		}
		comments[i].PlayerTitle = title
	}
	return comments, nil
}

func (s *CommentService) Approve(ctx context.Context, id int64) error {
	return s.comments.SetApproval(ctx, id, model.CommentApproved)
}

func (s *CommentService) Reject(ctx context.Context, id int64) error {
	return s.comments.SetApproval(ctx, id, model.CommentRejected)
}

// Reply adds an approved reply under an existing comment.
func (s *CommentService) Reply(ctx context.Context, parentID int64, req model.ReplyRequest, caller Caller) (*model.Comment, error) {
	parent, err := s.comments.FindByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMissingParent
		}
		return nil, err
	}

	name := DefaultReplyAuthor
	var email string
	if req.Author != nil {
		name, email = req.Author.Name, req.Author.Email
	}

	c := &model.Comment{
		PlayerID:    parent.PlayerID,
		ParentID:    parent.ID,
		UserID:      caller.UserID,
		AuthorName:  name,
		AuthorEmail: email,
		AuthorIP:    caller.IP,
		Content:     req.Reply,
		Approved:    model.CommentApproved,
	}
	if err := s.comments.Insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CommentService) Delete(ctx context.Context, id int64) error {
	return s.comments.Delete(ctx, id)
}

// Authors lists the distinct non-banned users that submitted comments.
func (s *CommentService) Authors(ctx context.Context) ([]model.CommentAuthorSummary, error) {
	return s.comments.Authors(ctx)
}

// NestReplies attaches replies to their parents, keeping the parents' order.
// Replies whose parent is not in top are dropped.
func NestReplies(top, replies []model.Comment) []model.Comment {
	index := make(map[int64]int, len(top))
	for i := range top {
		index[top[i].ID] = i
	}
	for _, r := range replies {
		if i, ok := index[r.ParentID]; ok {
			top[i].Replies = append(top[i].Replies, r)
		}
	}
	return top
}
