package mlp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateQuestions(t *testing.T) {
	var captured QuestionGenerationRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(QuestionGenerationResponse{
			TaskID: captured.TaskID,
			Questions: []GeneratedQuestion{
				{Question: "Why Go?", GroundTruths: []string{"concurrency"}, Topic: 1},
			},
			ResumeChunks: []string{"chunk"},
		})
	}))
	defer server.Close()

	client := NewClient(Endpoints{QuestionGeneration: server.URL}, 5*time.Second)
	resp, err := client.GenerateQuestions(context.Background(), QuestionGenerationRequest{
		TaskID:    "session-1",
		ResumeURL: Locator{Bucket: "media", Key: "cv.pdf"},
		JDTexts:   []string{"builds services"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Questions, 1)
	assert.Equal(t, "Why Go?", resp.Questions[0].Question)
	assert.Equal(t, []string{"chunk"}, resp.ResumeChunks)
	assert.Equal(t, "session-1", captured.TaskID)
	assert.Equal(t, "cv.pdf", captured.ResumeURL.Key)
}

func TestSubmitRenderRoutesByText(t *testing.T) {
	var plain, withText int
	ack := func(w http.ResponseWriter, taskID string) {
		json.NewEncoder(w).Encode(RenderAck{Status: "SUCCESS", TaskID: taskID})
	}
	plainServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		plain++
		ack(w, "t-1")
	}))
	defer plainServer.Close()
	textServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		withText++
		ack(w, "t-2")
	}))
	defer textServer.Close()

	client := NewClient(Endpoints{
		Render:         plainServer.URL,
		RenderWithText: textServer.URL,
	}, 5*time.Second)

	_, err := client.SubmitRender(context.Background(), RenderRequest{TaskID: "t-1"})
	require.NoError(t, err)
	_, err = client.SubmitRender(context.Background(), RenderRequest{TaskID: "t-2", Text: "Why Go?"})
	require.NoError(t, err)

	assert.Equal(t, 1, plain)
	assert.Equal(t, 1, withText)
}

func TestSubmitRenderRejectedAck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(RenderAck{Status: "FAILURE", Detail: "bad locator"})
	}))
	defer server.Close()

	client := NewClient(Endpoints{Render: server.URL}, 5*time.Second)
	_, err := client.SubmitRender(context.Background(), RenderRequest{TaskID: "t-1"})
	require.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "bad locator")
}

func TestSelectQuestionSendsEmptyBank(t *testing.T) {
	var rawBody map[string]json.RawMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rawBody))
		json.NewEncoder(w).Encode(SelectionResponse{QuestionID: ""})
	}))
	defer server.Close()

	client := NewClient(Endpoints{Selection: server.URL}, 5*time.Second)
	_, err := client.SelectQuestion(context.Background(), SelectionRequest{
		TaskID: "session-1",
	})
	require.NoError(t, err)

	// A nil bank goes out as an empty list, never null.
	assert.JSONEq(t, `[]`, string(rawBody["question_bank"]))
}

func TestPostUpstreamStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(Endpoints{Analysis: server.URL}, 5*time.Second)
	_, err := client.AnalyzeAnswer(context.Background(), AnalysisRequest{TaskID: "a-1"})
	require.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "503")
}

func TestPostMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(Endpoints{Analysis: server.URL}, 5*time.Second)
	_, err := client.AnalyzeAnswer(context.Background(), AnalysisRequest{TaskID: "a-1"})
	require.ErrorIs(t, err, ErrUpstream)
}

type stubGenerator struct {
	called bool
}

func (s *stubGenerator) GenerateQuestions(context.Context, QuestionGenerationRequest) (*QuestionGenerationResponse, error) {
	s.called = true
	return &QuestionGenerationResponse{}, nil
}

func TestQuestionGeneratorOverride(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("pipeline endpoint must not be called when a generator is plugged in")
	}))
	defer server.Close()

	stub := &stubGenerator{}
	client := NewClient(Endpoints{QuestionGeneration: server.URL}, 5*time.Second, WithQuestionGenerator(stub))

	_, err := client.GenerateQuestions(context.Background(), QuestionGenerationRequest{TaskID: "s-1"})
	require.NoError(t, err)
	assert.True(t, stub.called)
}
