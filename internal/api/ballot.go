package api

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/saxenaaman628/ballot-board/internal/crud"
	"github.com/saxenaaman628/ballot-board/internal/models"
)

type voteInput struct {
	Color     string `mapstructure:"color"`
	Comment   string `mapstructure:"comment"`
	CreatedAt string `mapstructure:"createdAt"`
}

type ballotInput struct {
	Question  string      `mapstructure:"question"`
	IsPrivate bool        `mapstructure:"isPrivate"`
	Votes     []voteInput `mapstructure:"votes"`
	Vote      *voteInput  `mapstructure:"vote"`
}

// ballotSummary is the list shape of a ballot.
type ballotSummary struct {
	*models.Ballot
	VoteCount int            `json:"voteCount"`
	Tally     map[string]int `json:"tally"`
}

func validateBallotCreate(body crud.Body) crud.Validation {
	_, msg := requiredString(body, "question", maxQuestionLen)
	return validation(msg, optionalBool(body, "isPrivate"))
}

func validateBallotUpdate(body crud.Body) crud.Validation {
	return validation(
		optionalString(body, "question", maxQuestionLen),
		optionalBool(body, "isPrivate"),
	)
}

func (a *API) vote(in voteInput) (models.Vote, error) {
	color := strings.ToLower(strings.TrimSpace(in.Color))
	if !models.ValidColor(color) {
		return models.Vote{}, crud.Invalidf("vote color must be one of %s", strings.Join(models.Colors, ", "))
	}
	comment := strings.TrimSpace(in.Comment)
	if len([]rune(comment)) > maxCommentLen {
		return models.Vote{}, crud.Invalidf("vote comment must be at most %d characters", maxCommentLen)
	}
	createdAt := in.CreatedAt
	if createdAt == "" {
		createdAt = a.timestamp()
	}
	return models.Vote{Color: color, Comment: comment, CreatedAt: createdAt}, nil
}

func (a *API) buildBallot(body crud.Body, _ []*models.Ballot) (*models.Ballot, error) {
	var in ballotInput
	if err := decode(body, &in); err != nil {
		return nil, err
	}
	return &models.Ballot{
		ID:        a.newID(),
		Question:  strings.TrimSpace(in.Question),
		Votes:     []models.Vote{},
		IsPrivate: in.IsPrivate,
		CreatedAt: a.timestamp(),
	}, nil
}

// applyBallot handles PUT: question and isPrivate replace, votes replaces the
// whole list and vote appends one.
func (a *API) applyBallot(current *models.Ballot, body crud.Body) (*models.Ballot, error) {
	var in ballotInput
	if err := decode(body, &in); err != nil {
		return nil, err
	}
	next := *current
	next.Votes = append([]models.Vote{}, current.Votes...)

	if _, ok := body["question"]; ok {
		next.Question = strings.TrimSpace(in.Question)
	}
	if _, ok := body["isPrivate"]; ok {
		next.IsPrivate = in.IsPrivate
	}
	if raw, ok := body["votes"]; ok && raw != nil {
		votes := make([]models.Vote, 0, len(in.Votes))
		for _, vi := range in.Votes {
			v, err := a.vote(vi)
			if err != nil {
				return nil, err
			}
			votes = append(votes, v)
		}
		next.Votes = votes
	}
	if in.Vote != nil {
		v, err := a.vote(*in.Vote)
		if err != nil {
			return nil, err
		}
		next.Votes = append(next.Votes, v)
	}
	return &next, nil
}

// appendVote handles POST /ballots/:id/votes, whose body is a single vote.
func (a *API) appendVote(current *models.Ballot, body crud.Body) (*models.Ballot, error) {
	var in voteInput
	if err := decode(body, &in); err != nil {
		return nil, err
	}
	v, err := a.vote(in)
	if err != nil {
		return nil, err
	}
	next := *current
	next.Votes = append(append([]models.Vote{}, current.Votes...), v)
	return &next, nil
}

func validateVote(body crud.Body) crud.Validation {
	color, msg := requiredString(body, "color", maxNameLen)
	if msg == "" && !models.ValidColor(strings.ToLower(color)) {
		msg = "color must be one of " + strings.Join(models.Colors, ", ")
	}
	return validation(msg, optionalString(body, "comment", maxCommentLen))
}

func includePrivate(c *gin.Context) bool {
	return c.Query("includePrivate") == "true"
}

func (a *API) ballotHandlers() handlerSet {
	res := a.Ballots
	return handlerSet{
		list: crud.List(res, crud.ListOptions[*models.Ballot]{
			Filter: func(c *gin.Context, b *models.Ballot) bool {
				return includePrivate(c) || !b.IsPrivate
			},
			Less: func(x, y *models.Ballot) bool { return x.CreatedAt > y.CreatedAt },
			Transform: func(_ *gin.Context, items []*models.Ballot) any {
				out := make([]ballotSummary, 0, len(items))
				for _, b := range items {
					if b.Votes == nil {
						b.Votes = []models.Vote{}
					}
					out = append(out, ballotSummary{Ballot: b, VoteCount: len(b.Votes), Tally: b.Tally()})
				}
				return out
			},
		}),
		get: crud.Get(res, crud.GetOptions[*models.Ballot]{
			Attributes: func(b *models.Ballot) map[string]any {
				return map[string]any{"ballot.votes": len(b.Votes), "ballot.private": b.IsPrivate}
			},
		}),
		create: crud.Create(res, crud.CreateOptions[*models.Ballot]{
			Validate: validateBallotCreate,
			Build:    a.buildBallot,
		}),
		update: crud.Update(res, crud.UpdateOptions[*models.Ballot]{
			Validate: validateBallotUpdate,
			Apply:    a.applyBallot,
		}),
		remove: crud.Delete(res, crud.DeleteOptions[*models.Ballot]{
			Response: func(b *models.Ballot) any {
				return gin.H{
					"message":       "Ballot deleted successfully",
					"deletedBallot": gin.H{"id": b.ID, "question": b.Question},
				}
			},
		}),
	}
}

func (a *API) ballotVoteHandler() gin.HandlerFunc {
	return crud.Update(a.Ballots, crud.UpdateOptions[*models.Ballot]{
		Validate:         validateVote,
		Apply:            a.appendVote,
		SkipVersionCheck: true,
	})
}
