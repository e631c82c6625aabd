package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestClient creates a miniredis instance and returns a connected RedisClient.
func setupTestClient(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := NewRedisClient(RedisOptions{
		URL:            fmt.Sprintf("redis://%s", mr.Addr()),
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	return client, mr
}

// TestNewRedisClient tests client creation and connection.
func TestNewRedisClient(t *testing.T) {
	t.Run("successful connection", func(t *testing.T) {
		mr := miniredis.RunT(t)
		defer mr.Close()

		client, err := NewRedisClient(RedisOptions{
			URL: fmt.Sprintf("redis://%s", mr.Addr()),
		})
		require.NoError(t, err)
		require.NotNil(t, client)
		defer client.Close()
	})

	t.Run("default options", func(t *testing.T) {
		mr := miniredis.RunT(t)
		defer mr.Close()

		// Only URL is set, so the connect/read/write timeouts take their defaults
		_, err := NewRedisClient(RedisOptions{
			URL: fmt.Sprintf("redis://%s", mr.Addr()),
		})
		require.NoError(t, err)
	})

	t.Run("connection failure", func(t *testing.T) {
		// Try to connect to an invalid Redis instance
		_, err := NewRedisClient(RedisOptions{
			URL:            "redis://localhost:99999",
			ConnectTimeout: 100 * time.Millisecond,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to connect to Redis")
	})

	t.Run("invalid URL", func(t *testing.T) {
		_, err := NewRedisClient(RedisOptions{
			URL: "invalid://url",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse Redis URL")
	})
}

// TestPushPop tests Push and Pop operations.
func TestPushPop(t *testing.T) {
	t.Run("successful push and pop", func(t *testing.T) {
		client, _ := setupTestClient(t)
		ctx := context.Background()

		item := WorkItem{
			JobID:       "job-123",
			Index:       0,
			Total:       1,
			Tool:        "ai_detection",
			InputJSON:   `{"target": "192.168.1.1"}`,
			InputType:   "vibejudge.agent.v1.EvaluateRequest",
			OutputType:  "vibejudge.agent.v1.EvaluateResponse",
			TraceID:     "trace-123",
			SpanID:      "span-123",
			SubmittedAt: time.Now().UnixMilli(),
		}

		// Push item
		err := client.Push(ctx, "test-queue", item)
		require.NoError(t, err)

		// Pop item
		popped, err := client.Pop(ctx, "test-queue")
		require.NoError(t, err)
		require.NotNil(t, popped)

		// Verify all fields match
		assert.Equal(t, item.JobID, popped.JobID)
		assert.Equal(t, item.Index, popped.Index)
		assert.Equal(t, item.Total, popped.Total)
		assert.Equal(t, item.Tool, popped.Tool)
		assert.Equal(t, item.InputJSON, popped.InputJSON)
		assert.Equal(t, item.InputType, popped.InputType)
		assert.Equal(t, item.OutputType, popped.OutputType)
		assert.Equal(t, item.TraceID, popped.TraceID)
		assert.Equal(t, item.SpanID, popped.SpanID)
		assert.Equal(t, item.SubmittedAt, popped.SubmittedAt)
	})

	t.Run("multiple items FIFO order", func(t *testing.T) {
		client, _ := setupTestClient(t)
		ctx := context.Background()

		// Push multiple items
		for i := 0; i < 5; i++ {
			item := WorkItem{
				JobID:       fmt.Sprintf("job-%d", i),
				Index:       i,
				Total:       5,
				Tool:        "ai_detection",
				InputJSON:   fmt.Sprintf(`{"target": "192.168.1.%d"}`, i),
				InputType:   "vibejudge.agent.v1.EvaluateRequest",
				OutputType:  "vibejudge.agent.v1.EvaluateResponse",
				SubmittedAt: time.Now().UnixMilli(),
			}
			err := client.Push(ctx, "test-queue", item)
			require.NoError(t, err)
		}

		// Pop items and verify FIFO order (first pushed is first popped)
		for i := 0; i < 5; i++ {
			popped, err := client.Pop(ctx, "test-queue")
			require.NoError(t, err)
			require.NotNil(t, popped)
			assert.Equal(t, fmt.Sprintf("job-%d", i), popped.JobID)
			assert.Equal(t, i, popped.Index)
		}
	})

	t.Run("pop from empty queue returns on data", func(t *testing.T) {
		client, _ := setupTestClient(t)
		ctx := context.Background()

		// Start a goroutine that will pop from an empty queue
		resultChan := make(chan *WorkItem, 1)
		errChan := make(chan error, 1)

		go func() {
			item, err := client.Pop(ctx, "delayed-queue")
			if err != nil {
				errChan <- err
				return
			}
			resultChan <- item
		}()

		// Give it a moment to start blocking
		time.Sleep(100 * time.Millisecond)

		// Push an item - this should unblock the Pop
		workItem := WorkItem{
			JobID:       "delayed-job",
			Index:       0,
			Total:       1,
			Tool:        "ai_detection",
			InputJSON:   `{}`,
			InputType:   "test",
			OutputType:  "test",
			SubmittedAt: time.Now().UnixMilli(),
		}
		err := client.Push(ctx, "delayed-queue", workItem)
		require.NoError(t, err)

		// Should receive the item
		select {
		case item := <-resultChan:
			require.NotNil(t, item)
			assert.Equal(t, "delayed-job", item.JobID)
		case err := <-errChan:
			t.Fatalf("unexpected error: %v", err)
		case <-time.After(2 * time.Second):
			t.Fatal("Pop did not return after item was pushed")
		}
	})

	t.Run("push invalid JSON structure", func(t *testing.T) {
		client, _ := setupTestClient(t)
		ctx := context.Background()

		// WorkItem is a valid struct, so JSON marshaling will always succeed.
		// However, we can test that the round-trip works correctly.
		item := WorkItem{
			JobID:       "job-123",
			Index:       0,
			Total:       1,
			Tool:        "ai_detection",
			InputJSON:   `{"invalid": "json"`, // Invalid JSON in the InputJSON field
			InputType:   "vibejudge.agent.v1.EvaluateRequest",
			OutputType:  "vibejudge.agent.v1.EvaluateResponse",
			SubmittedAt: time.Now().UnixMilli(),
		}

		// Push should succeed (WorkItem itself is valid)
		err := client.Push(ctx, "test-queue", item)
		require.NoError(t, err)

		// Pop should also succeed and return the item with invalid JSON in InputJSON field
		popped, err := client.Pop(ctx, "test-queue")
		require.NoError(t, err)
		assert.Equal(t, item.InputJSON, popped.InputJSON)
	})
}

// TestPublishSubscribe tests pub/sub operations.
func TestPublishSubscribe(t *testing.T) {
	t.Run("successful publish and subscribe", func(t *testing.T) {
		client, _ := setupTestClient(t)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		channel := "job-results"

		// Subscribe first
		resultChan, err := client.Subscribe(ctx, channel)
		require.NoError(t, err)

		// Publish result
		result := Result{
			JobID:       "job-123",
			Index:       0,
			OutputJSON:  `{"status": "success"}`,
			OutputType:  "vibejudge.agent.v1.EvaluateResponse",
			WorkerID:    "worker-1",
			StartedAt:   time.Now().UnixMilli(),
			CompletedAt: time.Now().UnixMilli() + 100,
		}

		err = client.Publish(ctx, channel, result)
		require.NoError(t, err)

		// Receive result
		select {
		case received := <-resultChan:
			assert.Equal(t, result.JobID, received.JobID)
			assert.Equal(t, result.Index, received.Index)
			assert.Equal(t, result.OutputJSON, received.OutputJSON)
			assert.Equal(t, result.OutputType, received.OutputType)
			assert.Equal(t, result.WorkerID, received.WorkerID)
			assert.Equal(t, result.StartedAt, received.StartedAt)
			assert.Equal(t, result.CompletedAt, received.CompletedAt)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for result")
		}
	})

	t.Run("multiple subscribers", func(t *testing.T) {
		client, _ := setupTestClient(t)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		channel := "job-results-multi"

		// Create multiple subscribers
		sub1, err := client.Subscribe(ctx, channel)
		require.NoError(t, err)

		sub2, err := client.Subscribe(ctx, channel)
		require.NoError(t, err)

		// Publish result
		result := Result{
			JobID:       "job-123",
			Index:       0,
			OutputJSON:  `{"status": "success"}`,
			OutputType:  "vibejudge.agent.v1.EvaluateResponse",
			WorkerID:    "worker-1",
			StartedAt:   time.Now().UnixMilli(),
			CompletedAt: time.Now().UnixMilli() + 100,
		}

		err = client.Publish(ctx, channel, result)
		require.NoError(t, err)

		// Both subscribers should receive the result
		for i, sub := range []<-chan Result{sub1, sub2} {
			select {
			case received := <-sub:
				assert.Equal(t, result.JobID, received.JobID, "subscriber %d", i)
			case <-time.After(2 * time.Second):
				t.Fatalf("subscriber %d: timeout waiting for result", i)
			}
		}
	})

	t.Run("subscribe with context cancellation", func(t *testing.T) {
		client, _ := setupTestClient(t)
		ctx, cancel := context.WithCancel(context.Background())

		channel := "job-results-cancel"
		resultChan, err := client.Subscribe(ctx, channel)
		require.NoError(t, err)

		// Cancel context
		cancel()

		// Channel should close
		select {
		case _, ok := <-resultChan:
			assert.False(t, ok, "channel should be closed")
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for channel to close")
		}
	})

	t.Run("publish result with error", func(t *testing.T) {
		client, _ := setupTestClient(t)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		channel := "job-results-error"

		// Subscribe first
		resultChan, err := client.Subscribe(ctx, channel)
		require.NoError(t, err)

		// Publish result with error
		result := Result{
			JobID:       "job-123",
			Index:       0,
			Error:       "execution failed: tool crashed",
			OutputType:  "vibejudge.agent.v1.EvaluateResponse",
			WorkerID:    "worker-1",
			StartedAt:   time.Now().UnixMilli(),
			CompletedAt: time.Now().UnixMilli() + 100,
		}

		err = client.Publish(ctx, channel, result)
		require.NoError(t, err)

		// Receive result
		select {
		case received := <-resultChan:
			assert.Equal(t, result.Error, received.Error)
			assert.True(t, received.HasError())
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for result")
		}
	})
}

// TestJSONSerializationRoundTrips tests JSON serialization for all types.
func TestJSONSerializationRoundTrips(t *testing.T) {
	t.Run("WorkItem round-trip", func(t *testing.T) {
		original := WorkItem{
			JobID:       "job-123",
			Index:       5,
			Total:       10,
			Tool:        "ai_detection",
			InputJSON:   `{"target": "192.168.1.1", "ports": [80, 443]}`,
			InputType:   "vibejudge.agent.v1.EvaluateRequest",
			OutputType:  "vibejudge.agent.v1.EvaluateResponse",
			TraceID:     "trace-456",
			SpanID:      "span-789",
			SubmittedAt: 1234567890123,
		}

		// Marshal
		data, err := json.Marshal(original)
		require.NoError(t, err)

		// Unmarshal
		var decoded WorkItem
		err = json.Unmarshal(data, &decoded)
		require.NoError(t, err)

		// Verify all fields
		assert.Equal(t, original.JobID, decoded.JobID)
		assert.Equal(t, original.Index, decoded.Index)
		assert.Equal(t, original.Total, decoded.Total)
		assert.Equal(t, original.Tool, decoded.Tool)
		assert.Equal(t, original.InputJSON, decoded.InputJSON)
		assert.Equal(t, original.InputType, decoded.InputType)
		assert.Equal(t, original.OutputType, decoded.OutputType)
		assert.Equal(t, original.TraceID, decoded.TraceID)
		assert.Equal(t, original.SpanID, decoded.SpanID)
		assert.Equal(t, original.SubmittedAt, decoded.SubmittedAt)
	})

	t.Run("Result round-trip with success", func(t *testing.T) {
		original := Result{
			JobID:       "job-123",
			Index:       5,
			OutputJSON:  `{"hosts": ["192.168.1.1"], "open_ports": [80, 443]}`,
			OutputType:  "vibejudge.agent.v1.EvaluateResponse",
			WorkerID:    "worker-1",
			StartedAt:   1234567890123,
			CompletedAt: 1234567895123,
		}

		// Marshal
		data, err := json.Marshal(original)
		require.NoError(t, err)

		// Unmarshal
		var decoded Result
		err = json.Unmarshal(data, &decoded)
		require.NoError(t, err)

		// Verify all fields
		assert.Equal(t, original.JobID, decoded.JobID)
		assert.Equal(t, original.Index, decoded.Index)
		assert.Equal(t, original.OutputJSON, decoded.OutputJSON)
		assert.Equal(t, original.OutputType, decoded.OutputType)
		assert.Equal(t, original.Error, decoded.Error)
		assert.Equal(t, original.WorkerID, decoded.WorkerID)
		assert.Equal(t, original.StartedAt, decoded.StartedAt)
		assert.Equal(t, original.CompletedAt, decoded.CompletedAt)
		assert.False(t, decoded.HasError())
	})

	t.Run("Result round-trip with error", func(t *testing.T) {
		original := Result{
			JobID:       "job-123",
			Index:       5,
			Error:       "execution failed: tool crashed with segfault",
			OutputType:  "vibejudge.agent.v1.EvaluateResponse",
			WorkerID:    "worker-1",
			StartedAt:   1234567890123,
			CompletedAt: 1234567895123,
		}

		// Marshal
		data, err := json.Marshal(original)
		require.NoError(t, err)

		// Unmarshal
		var decoded Result
		err = json.Unmarshal(data, &decoded)
		require.NoError(t, err)

		// Verify all fields
		assert.Equal(t, original.JobID, decoded.JobID)
		assert.Equal(t, original.Index, decoded.Index)
		assert.Empty(t, decoded.OutputJSON)
		assert.Equal(t, original.OutputType, decoded.OutputType)
		assert.Equal(t, original.Error, decoded.Error)
		assert.Equal(t, original.WorkerID, decoded.WorkerID)
		assert.Equal(t, original.StartedAt, decoded.StartedAt)
		assert.Equal(t, original.CompletedAt, decoded.CompletedAt)
		assert.True(t, decoded.HasError())
	})

	t.Run("WorkItem with empty optional fields", func(t *testing.T) {
		original := WorkItem{
			JobID:       "job-123",
			Index:       0,
			Total:       1,
			Tool:        "ai_detection",
			InputJSON:   `{}`,
			InputType:   "vibejudge.agent.v1.EvaluateRequest",
			OutputType:  "vibejudge.agent.v1.EvaluateResponse",
			TraceID:     "",
			SpanID:      "",
			SubmittedAt: 1234567890123,
		}

		// Marshal
		data, err := json.Marshal(original)
		require.NoError(t, err)

		// Unmarshal
		var decoded WorkItem
		err = json.Unmarshal(data, &decoded)
		require.NoError(t, err)

		// Verify empty fields are preserved
		assert.Equal(t, "", decoded.TraceID)
		assert.Equal(t, "", decoded.SpanID)
	})
}

// TestErrorScenarios tests various error conditions.
func TestErrorScenarios(t *testing.T) {
	t.Run("push to closed client", func(t *testing.T) {
		client, _ := setupTestClient(t)
		ctx := context.Background()

		// Close client
		err := client.Close()
		require.NoError(t, err)

		// Try to push
		item := WorkItem{
			JobID:       "job-123",
			Index:       0,
			Total:       1,
			Tool:        "ai_detection",
			InputJSON:   `{}`,
			InputType:   "vibejudge.agent.v1.EvaluateRequest",
			OutputType:  "vibejudge.agent.v1.EvaluateResponse",
			SubmittedAt: time.Now().UnixMilli(),
		}

		err = client.Push(ctx, "test-queue", item)
		require.Error(t, err)
	})

	t.Run("pop with expired context", func(t *testing.T) {
		client, _ := setupTestClient(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel() // Immediately cancel

		_, err := client.Pop(ctx, "test-queue")
		require.Error(t, err)
	})

	t.Run("publish with expired context", func(t *testing.T) {
		client, _ := setupTestClient(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel() // Immediately cancel

		result := Result{
			JobID:       "job-123",
			Index:       0,
			OutputJSON:  `{}`,
			OutputType:  "vibejudge.agent.v1.EvaluateResponse",
			WorkerID:    "worker-1",
			StartedAt:   time.Now().UnixMilli(),
			CompletedAt: time.Now().UnixMilli(),
		}

		err := client.Publish(ctx, "test-channel", result)
		require.Error(t, err)
	})

	t.Run("subscribe with expired context", func(t *testing.T) {
		client, _ := setupTestClient(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel() // Immediately cancel

		_, err := client.Subscribe(ctx, "test-channel")
		require.Error(t, err)
	})

}

// TestClose tests the Close method.
func TestClose(t *testing.T) {
	t.Run("close client", func(t *testing.T) {
		client, _ := setupTestClient(t)

		err := client.Close()
		require.NoError(t, err)
	})

	t.Run("double close", func(t *testing.T) {
		client, _ := setupTestClient(t)

		err := client.Close()
		require.NoError(t, err)

		// Second close should not panic (may return error)
		_ = client.Close()
	})
}

// TestRealWorldScenarios tests realistic usage patterns.
func TestRealWorldScenarios(t *testing.T) {
	t.Run("complete workflow: submission pushed, popped, and result published", func(t *testing.T) {
		client, _ := setupTestClient(t)
		ctx := context.Background()

		toolName := "ai_detection"

		// 1. Push work item (orchestrator submits an agent evaluation)
		workItem := WorkItem{
			JobID:       "job-123",
			Index:       0,
			Total:       1,
			Tool:        toolName,
			InputJSON:   `{"target": "192.168.1.1"}`,
			InputType:   "vibejudge.agent.v1.EvaluateRequest",
			OutputType:  "vibejudge.agent.v1.EvaluateResponse",
			SubmittedAt: time.Now().UnixMilli(),
		}
		err := client.Push(ctx, "ai_detection:work", workItem)
		require.NoError(t, err)

		// 2. Pop work item (worker picks up work)
		popped, err := client.Pop(ctx, "ai_detection:work")
		require.NoError(t, err)
		require.NotNil(t, popped)
		assert.Equal(t, workItem.JobID, popped.JobID)

		// 3. Publish result (worker completes work)
		result := Result{
			JobID:       popped.JobID,
			Index:       popped.Index,
			OutputJSON:  `{"open_ports": [80, 443]}`,
			OutputType:  popped.OutputType,
			WorkerID:    "worker-1",
			StartedAt:   time.Now().UnixMilli(),
			CompletedAt: time.Now().UnixMilli() + 100,
		}
		err = client.Publish(ctx, "job:"+popped.JobID, result)
		require.NoError(t, err)
	})

	t.Run("batch job processing", func(t *testing.T) {
		client, _ := setupTestClient(t)
		ctx := context.Background()

		jobID := "batch-job-123"
		batchSize := 10

		// Subscribe to results
		resultChan, err := client.Subscribe(ctx, "job:"+jobID)
		require.NoError(t, err)

		// Push batch of work items
		for i := 0; i < batchSize; i++ {
			workItem := WorkItem{
				JobID:       jobID,
				Index:       i,
				Total:       batchSize,
				Tool:        "ai_detection",
				InputJSON:   fmt.Sprintf(`{"target": "192.168.1.%d"}`, i),
				InputType:   "vibejudge.agent.v1.EvaluateRequest",
				OutputType:  "vibejudge.agent.v1.EvaluateResponse",
				SubmittedAt: time.Now().UnixMilli(),
			}
			err := client.Push(ctx, "ai_detection:work", workItem)
			require.NoError(t, err)
		}

		// Simulate workers processing items
		go func() {
			for i := 0; i < batchSize; i++ {
				popped, err := client.Pop(ctx, "ai_detection:work")
				if err != nil {
					continue
				}

				result := Result{
					JobID:       popped.JobID,
					Index:       popped.Index,
					OutputJSON:  fmt.Sprintf(`{"result": %d}`, popped.Index),
					OutputType:  popped.OutputType,
					WorkerID:    "worker-1",
					StartedAt:   time.Now().UnixMilli(),
					CompletedAt: time.Now().UnixMilli() + 10,
				}

				_ = client.Publish(ctx, "job:"+jobID, result)
			}
		}()

		// Collect all results
		receivedResults := 0
		timeout := time.After(5 * time.Second)

		for receivedResults < batchSize {
			select {
			case result := <-resultChan:
				assert.Equal(t, jobID, result.JobID)
				assert.False(t, result.HasError())
				receivedResults++
			case <-timeout:
				t.Fatalf("timeout: only received %d/%d results", receivedResults, batchSize)
			}
		}

		assert.Equal(t, batchSize, receivedResults)
	})
}
