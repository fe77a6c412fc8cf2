package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/pav-service/internal/config"
	"github.com/light-bringer/pav-service/internal/models/m_job"
)

func main() {
	limit := flag.Int("limit", 10, "Number of recent jobs to show")
	status := flag.String("status", "", "Only show jobs with this status")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	client, err := spanner.NewClient(ctx, cfg.SpannerDatabase)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	sql := "SELECT " + m_job.JobID + ", " + m_job.EntityType + ", " + m_job.Action + ", " +
		m_job.EntityID + ", " + m_job.Status + ", " + m_job.Error + ", " + m_job.CreatedAt +
		" FROM " + m_job.TableName
	params := map[string]interface{}{"limit": int64(*limit)}
	if *status != "" {
		sql += " WHERE " + m_job.Status + " = @status"
		params["status"] = *status
	}
	sql += " ORDER BY " + m_job.CreatedAt + " DESC, " + m_job.Sequence + " DESC LIMIT @limit"

	iter := client.Single().Query(ctx, spanner.Statement{SQL: sql, Params: params})
	defer iter.Stop()

	fmt.Println("Jobs in " + m_job.TableName + ":")
	count := 0
	for {
		row, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			log.Fatalf("Failed to iterate: %v", err)
		}

		var jobID, entityType, action, jobStatus string
		var entityID, message spanner.NullString
		var createdAt spanner.NullTime
		if err := row.Columns(&jobID, &entityType, &action, &entityID, &jobStatus, &message, &createdAt); err != nil {
			log.Fatalf("Failed to scan: %v", err)
		}

		fmt.Printf("%d. %s %s - %s (entity: %s, status: %s)\n", count+1, entityType, action, jobID, entityID.StringVal, jobStatus)
		if message.Valid {
			fmt.Printf("   error: %s\n", message.StringVal)
		}
		count++
	}

	if count == 0 {
		fmt.Println("No jobs found!")
	} else {
		fmt.Printf("\nTotal: %d jobs\n", count)
	}
}
