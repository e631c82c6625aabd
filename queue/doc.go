// Package queue provides Redis-based work queue primitives for distributed
// agent evaluation.
//
// The package offers work-queue primitives (Push/Pop) and result delivery
// through Redis pub/sub (Publish/Subscribe). Within this module the
// orchestrator only publishes one Result per evaluated agent as a
// progress event; nothing in the module calls Push, Pop or Subscribe.
//
// # Core Components
//
// Client: Interface for interacting with Redis queues. Provides methods for:
//   - Push/Pop operations for work queues
//   - Publish/Subscribe for result delivery
//
// WorkItem: A unit of work containing the agent name, input data, and
// trace context.
//
// Result: The outcome of executing a WorkItem, including output or error.
//
// # Usage
//
// Creating a queue client:
//
//	client, err := queue.NewRedisClient(queue.RedisOptions{
//		URL: "redis://localhost:6379",
//		TLS: nil,
//		ConnectTimeout: 5 * time.Second,
//	})
//
// Pushing work to a queue:
//
//	err := client.Push(ctx, "agent:ai_detection:queue", queue.WorkItem{
//		JobID: "job-123",
//		Index: 0,
//		Total: 1,
//		Tool: "ai_detection",
//		InputJSON: `{"target":"192.168.1.1"}`,
//		InputType: "vibejudge.agent.v1.EvaluateRequest",
//		SubmittedAt: time.Now().UnixMilli(),
//	})
//
// Popping work from a queue (blocking):
//
//	item, err := client.Pop(ctx, "agent:ai_detection:queue")
//	if err != nil {
//		log.Fatal(err)
//	}
//	// Process item...
//
// Publishing results:
//
//	err := client.Publish(ctx, "vibejudge:submission:job-123:progress", queue.Result{
//		JobID: "job-123",
//		Index: 0,
//		OutputJSON: `{"hosts":[...]}`,
//		CompletedAt: time.Now().UnixMilli(),
//	})
//
// Subscribing to results:
//
//	results, err := client.Subscribe(ctx, "vibejudge:submission:job-123:progress")
//	if err != nil {
//		log.Fatal(err)
//	}
//	for result := range results {
//		fmt.Printf("Received result %d\n", result.Index)
//	}
//
// # Error Handling
//
// All methods return errors for Redis connection failures, serialization
// errors, or context cancellation. Clients should implement retry logic
// with exponential backoff for transient failures.
//
// # Thread Safety
//
// RedisClient is safe for concurrent use by multiple goroutines.
package queue
