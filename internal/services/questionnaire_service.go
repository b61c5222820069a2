package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fullgorilla/internal/cookbook"
	"fullgorilla/internal/models/request_models"
	"fullgorilla/internal/models/response_models"
	"fullgorilla/internal/questionnaire"
	"fullgorilla/internal/recommendation"
	"fullgorilla/internal/repositories"
	mem "fullgorilla/pkg/memcache"
	"fullgorilla/pkg/utils"
)

const (
	SourceFlow   = "flow"
	SourceSubmit = "submit"
)

// FlowSession is one account's in-progress questionnaire. The mutex
// serialises transitions coming from concurrent requests.
type FlowSession struct {
	mu          sync.Mutex
	accountID   uuid.UUID
	primaryName string
	state       questionnaire.State
	result      *response_models.CompletionResponse
}

type SessionStore = mem.Store[*FlowSession]

func NewSessionStore(capacity int, ttl time.Duration) *SessionStore {
	return mem.NewStore[*FlowSession](capacity, ttl)
}

type QuestionnaireServiceInterface interface {
	Questions() []response_models.QuestionResponse
	StartSession(ctx context.Context, accountID uuid.UUID) (*response_models.SessionResponse, error)
	GetSession(ctx context.Context, accountID uuid.UUID, sessionID string) (*response_models.SessionResponse, error)
	SetAnswer(ctx context.Context, accountID uuid.UUID, sessionID string, raw json.RawMessage) (*response_models.SessionResponse, error)
	// Next returns the refreshed view together with a *questionnaire.ValidationError
	// when the working answer is rejected.
	Next(ctx context.Context, accountID uuid.UUID, sessionID string) (*response_models.SessionResponse, error)
	Back(ctx context.Context, accountID uuid.UUID, sessionID string) (*response_models.SessionResponse, error)
	Submit(ctx context.Context, accountID uuid.UUID, payload request_models.QuestionnairePayload) (*response_models.CompletionResponse, error)
}

type QuestionnaireService struct {
	flow        *questionnaire.Flow
	engine      *recommendation.Engine
	cookbooks   *cookbook.Catalog
	sessions    *SessionStore
	accountRepo repositories.AccountRepository
	repo        repositories.QuestionnaireRepository
	metrics     *Metrics
	log         *zap.Logger
}

func NewQuestionnaireService(
	flow *questionnaire.Flow,
	engine *recommendation.Engine,
	cookbooks *cookbook.Catalog,
	sessions *SessionStore,
	accountRepo repositories.AccountRepository,
	repo repositories.QuestionnaireRepository,
	metrics *Metrics,
	log *zap.Logger,
) QuestionnaireServiceInterface {
	return &QuestionnaireService{
		flow:        flow,
		engine:      engine,
		cookbooks:   cookbooks,
		sessions:    sessions,
		accountRepo: accountRepo,
		repo:        repo,
		metrics:     metrics,
		log:         log,
	}
}

func (q *QuestionnaireService) Questions() []response_models.QuestionResponse {
	catalog := q.flow.Catalog()
	out := make([]response_models.QuestionResponse, 0, catalog.Len())
	for _, question := range catalog.Questions {
		out = append(out, response_models.NewQuestionResponse(question, ""))
	}
	return out
}

func (q *QuestionnaireService) StartSession(ctx context.Context, accountID uuid.UUID) (*response_models.SessionResponse, error) {
	account, err := q.accountRepo.FindById(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}

	id := uuid.NewString()
	session := &FlowSession{
		accountID:   accountID,
		primaryName: account.Name,
		state:       q.flow.Start(),
	}
	q.sessions.Put(id, session)
	q.metrics.SessionStarted()
	q.log.Debug("questionnaire session started", zap.String("session_id", id), zap.String("account_id", accountID.String()))

	return q.view(id, session), nil
}

// lookup returns the caller's session, locked. The caller must unlock it.
// Every access by the owner restarts the session's idle timeout.
func (q *QuestionnaireService) lookup(accountID uuid.UUID, sessionID string) (*FlowSession, error) {
	session, ok := q.sessions.Get(sessionID)
	if !ok {
		return nil, utils.ErrSessionNotFound
	}
	if session.accountID != accountID {
		return nil, utils.ErrSessionForbidden
	}
	q.sessions.Touch(sessionID)
	session.mu.Lock()
	return session, nil
}

func (q *QuestionnaireService) GetSession(_ context.Context, accountID uuid.UUID, sessionID string) (*response_models.SessionResponse, error) {
	session, err := q.lookup(accountID, sessionID)
	if err != nil {
		return nil, err
	}
	defer session.mu.Unlock()
	return q.view(sessionID, session), nil
}

func (q *QuestionnaireService) SetAnswer(_ context.Context, accountID uuid.UUID, sessionID string, raw json.RawMessage) (*response_models.SessionResponse, error) {
	session, err := q.lookup(accountID, sessionID)
	if err != nil {
		return nil, err
	}
	defer session.mu.Unlock()

	if session.state.Completed {
		return nil, utils.ErrSessionCompleted
	}
	current, ok := q.flow.Current(session.state)
	if !ok {
		return nil, questionnaire.ErrNoQuestion
	}
	answer, err := questionnaire.Decode(current, raw)
	if err != nil {
		return q.view(sessionID, session), &questionnaire.ValidationError{QuestionID: current.ID, Reason: err.Error()}
	}

	session.state = q.flow.SetAnswer(session.state, answer)
	return q.view(sessionID, session), nil
}

func (q *QuestionnaireService) Next(ctx context.Context, accountID uuid.UUID, sessionID string) (*response_models.SessionResponse, error) {
	session, err := q.lookup(accountID, sessionID)
	if err != nil {
		return nil, err
	}
	defer session.mu.Unlock()

	if session.state.Completed {
		return nil, utils.ErrSessionCompleted
	}

	next, payload, err := q.flow.Advance(session.state)
	var verr *questionnaire.ValidationError
	if errors.As(err, &verr) {
		session.state = next
		return q.view(sessionID, session), verr
	}
	if err != nil {
		return nil, err
	}

	if payload != nil {
		// The session only moves to completed once the answers are stored,
		// so a failed save can be retried with another Next.
		result, err := q.complete(ctx, accountID, *payload, SourceFlow)
		if err != nil {
			return nil, err
		}
		session.result = result
	}
	session.state = next
	return q.view(sessionID, session), nil
}

func (q *QuestionnaireService) Back(_ context.Context, accountID uuid.UUID, sessionID string) (*response_models.SessionResponse, error) {
	session, err := q.lookup(accountID, sessionID)
	if err != nil {
		return nil, err
	}
	defer session.mu.Unlock()

	if session.state.Completed {
		return nil, utils.ErrSessionCompleted
	}
	session.state = q.flow.Retreat(session.state)
	return q.view(sessionID, session), nil
}

// Submit stores a questionnaire answered outside the server-side flow.
// Every supplied answer is decoded and validated against its question, and
// answers to questions the respondent's own answers skip are dropped.
func (q *QuestionnaireService) Submit(ctx context.Context, accountID uuid.UUID, request request_models.QuestionnairePayload) (*response_models.CompletionResponse, error) {
	catalog := q.flow.Catalog()

	primary, err := q.decodeRespondent(catalog, request.PrimaryResponses, false)
	if err != nil {
		return nil, err
	}
	payload := questionnaire.Payload{PrimaryResponses: primary, FamilyMembers: []questionnaire.Member{}}
	for i, m := range request.FamilyMembers {
		responses, err := q.decodeRespondent(catalog, m.Responses, true)
		if err != nil {
			return nil, err
		}
		id := m.ID
		if id == "" {
			id = fmt.Sprintf("member-%d", i)
		}
		name := m.Name
		if name == "" {
			name = fmt.Sprintf("Person %d", i+1)
		}
		payload.FamilyMembers = append(payload.FamilyMembers, questionnaire.Member{ID: id, Name: name, Responses: responses})
	}

	return q.complete(ctx, accountID, payload, SourceSubmit)
}

func (q *QuestionnaireService) decodeRespondent(catalog *questionnaire.Catalog, raw map[string]json.RawMessage, member bool) (questionnaire.Responses, error) {
	decoded, err := decodeResponses(catalog, raw)
	if err != nil {
		return nil, err
	}

	out := questionnaire.Responses{}
	for _, question := range catalog.Visible(decoded, member) {
		answer, ok := decoded[question.ID]
		if !ok {
			continue
		}
		if verr := questionnaire.Validate(question, answer); verr != nil {
			return nil, verr
		}
		out[question.ID] = answer
	}
	return out, nil
}

func (q *QuestionnaireService) complete(ctx context.Context, accountID uuid.UUID, payload questionnaire.Payload, source string) (*response_models.CompletionResponse, error) {
	slugs := q.engine.AssignPayload(payload)
	books := q.cookbooks.Details(slugs)

	record, err := responseRecord(accountID, payload, slugs)
	if err != nil {
		return nil, err
	}
	if err := q.repo.SaveCompleted(ctx, record, cookbookRows(books)); err != nil {
		q.log.Error("save questionnaire", zap.String("account_id", accountID.String()), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	q.metrics.Completed(record.AccountType, source, slugs)
	q.log.Info("questionnaire completed",
		zap.String("account_id", accountID.String()),
		zap.String("source", source),
		zap.Int("members", len(payload.FamilyMembers)),
		zap.Strings("cookbooks", slugs),
	)

	result := &response_models.CompletionResponse{Cookbooks: make([]response_models.CookbookResponse, 0, len(books))}
	for _, cb := range books {
		result.Cookbooks = append(result.Cookbooks, response_models.NewCookbookResponse(cb, true))
	}
	return result, nil
}

func (q *QuestionnaireService) view(sessionID string, session *FlowSession) *response_models.SessionResponse {
	s := session.state
	out := &response_models.SessionResponse{
		SessionID: sessionID,
		Error:     s.Error,
		Progress:  q.flow.Progress(s, session.primaryName),
		Completed: s.Completed,
		Result:    session.result,
	}
	if current, ok := q.flow.Current(s); ok {
		question := response_models.NewQuestionResponse(current, q.flow.Prompt(s, session.primaryName))
		out.Question = &question
		out.Answer = s.CurrentAnswer.Natural()
	}
	return out
}
