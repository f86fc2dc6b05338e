package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/abhisek/devtutor/internal/quiz"
	"github.com/abhisek/devtutor/internal/topics"
)

// maxCount bounds how many questions one request may ask for.
const maxCount = 10

type topicsResponse struct {
	Topics []topics.Topic `json:"topics"`
}

type questionsResponse struct {
	Questions []quiz.Question `json:"questions"`
}

// questionsRequest mirrors the query parameters of GET /api/questions.
type questionsRequest struct {
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
	Count      int    `json:"count"`
	Category   string `json:"category"`
}

func (a *API) handleTopics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, topicsResponse{Topics: topics.All()})
}

func (a *API) handleTopic(w http.ResponseWriter, r *http.Request) {
	t, ok := topics.Lookup(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "topic not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (a *API) handleQuestionsQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	in := questionsRequest{
		Topic:      q.Get("topic"),
		Difficulty: q.Get("difficulty"),
		Category:   q.Get("category"),
	}
	if raw := strings.TrimSpace(q.Get("count")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "count must be an integer")
			return
		}
		in.Count = n
	}
	a.serveQuestions(w, r, in)
}

func (a *API) handleQuestionsBody(w http.ResponseWriter, r *http.Request) {
	var in questionsRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	a.serveQuestions(w, r, in)
}

func (a *API) serveQuestions(w http.ResponseWriter, r *http.Request, in questionsRequest) {
	req, err := in.toRequest()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res := quiz.ResolveCached(r.Context(), a.resolver, a.cache, req, false)
	writeJSON(w, http.StatusOK, questionsResponse{Questions: res.Questions})
}

// toRequest validates the input. A catalog id in topic is replaced by the
// topic's display name; any other text is passed through.
func (in questionsRequest) toRequest() (quiz.Request, error) {
	topic := strings.TrimSpace(in.Topic)
	if topic == "" {
		return quiz.Request{}, errors.New("topic is required")
	}
	if t, ok := topics.Lookup(strings.ToLower(topic)); ok {
		topic = t.Name
	}

	if in.Count < 0 || in.Count > maxCount {
		return quiz.Request{}, fmt.Errorf("count must be between 1 and %d, or 0 for the default", maxCount)
	}

	var category quiz.Category
	if strings.TrimSpace(in.Category) != "" {
		c, err := quiz.ParseCategory(in.Category)
		if err != nil {
			return quiz.Request{}, err
		}
		category = c
	}

	return quiz.Request{
		Topic:      topic,
		Difficulty: quiz.Difficulty(strings.TrimSpace(in.Difficulty)),
		Count:      in.Count,
		Category:   category,
	}.WithDefaults(), nil
}
