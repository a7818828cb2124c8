package graph

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/hoclieu/edugraph-api/internal/bulk"
	"github.com/hoclieu/edugraph-api/internal/domain"
	"github.com/hoclieu/edugraph-api/internal/platform/apierr"
)

func (s *Store) ListKnowledge(ctx context.Context, subject, grade string) ([]Props, error) {
	records, err := s.readRecords(ctx, `
MATCH (k:Knowledge)
WHERE ($subject = '' OR k.subject = $subject)
  AND ($grade = '' OR k.grade = $grade)
RETURN k
ORDER BY k.subject, k.grade, k.order`, map[string]any{
		"subject": subject,
		"grade":   grade,
	})
	if err != nil {
		return nil, err
	}
	items := make([]Props, 0, len(records))
	for _, rec := range records {
		items = append(items, entityProps(rec, "k"))
	}
	return items, nil
}

// CreateKnowledge adds a topic node. The (name, subject, grade) triple must
// be unique.
func (s *Store) CreateKnowledge(ctx context.Context, in domain.KnowledgeRecord) (Props, error) {
	now := nowStamp()
	order := 0
	if in.Order != nil {
		order = *in.Order
	}

	session := s.db.WriteSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		existing, err := runCollect(ctx, tx, `
MATCH (k:Knowledge {name: $name, subject: $subject, grade: $grade})
RETURN k.id AS id`, map[string]any{
			"name":    in.Name,
			"subject": in.Subject,
			"grade":   in.Grade,
		})
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			return nil, apierr.Conflict("knowledge %q already exists for %s grade %s", in.Name, in.Subject, in.Grade)
		}

		records, err := runCollect(ctx, tx, `
CREATE (k:Knowledge {
    id: $id, name: $name, subject: $subject, grade: $grade,
    description: $description, order: $order,
    createdAt: $now, updatedAt: $now
})
RETURN k`, map[string]any{
			"id":          uuid.New().String(),
			"name":        in.Name,
			"subject":     in.Subject,
			"grade":       in.Grade,
			"description": in.Description,
			"order":       order,
			"now":         now,
		})
		if err != nil {
			return nil, err
		}
		return entityProps(records[0], "k"), nil
	})
	if err != nil {
		return nil, err
	}
	return out.(Props), nil
}

// LinkUserKnowledge creates a LEARNED relationship. Linking an already
// linked pair is a conflict; progress updates go through
// UpdateUserKnowledgeProgress instead.
func (s *Store) LinkUserKnowledge(ctx context.Context, in domain.KnowledgeLinkRecord) (Props, error) {
	status := in.Status
	if status == "" {
		status = domain.StatusLearning
	}
	if !domain.ValidStatus(status) {
		return nil, apierr.Invalid("status must be one of learning, completed, mastered, reviewing")
	}
	progress := 0
	if in.Progress != nil {
		progress = domain.ClampProgress(*in.Progress)
	}
	now := nowStamp()

	session := s.db.WriteSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		user, err := runCollect(ctx, tx, `MATCH (u:User {id: $user_id}) RETURN u.id AS id`, map[string]any{"user_id": in.UserID})
		if err != nil {
			return nil, err
		}
		if len(user) == 0 {
			return nil, apierr.NotFound("user %s not found", in.UserID)
		}
		knowledge, err := runCollect(ctx, tx, `MATCH (k:Knowledge {id: $knowledge_id}) RETURN k.id AS id`, map[string]any{"knowledge_id": in.KnowledgeID})
		if err != nil {
			return nil, err
		}
		if len(knowledge) == 0 {
			return nil, apierr.NotFound("knowledge %s not found", in.KnowledgeID)
		}
		linked, err := runCollect(ctx, tx, `
MATCH (u:User {id: $user_id})-[r:LEARNED]->(k:Knowledge {id: $knowledge_id})
RETURN r.status AS status`, map[string]any{"user_id": in.UserID, "knowledge_id": in.KnowledgeID})
		if err != nil {
			return nil, err
		}
		if len(linked) > 0 {
			return nil, apierr.Conflict("user %s already linked to knowledge %s", in.UserID, in.KnowledgeID)
		}

		records, err := runCollect(ctx, tx, `
MATCH (u:User {id: $user_id})
MATCH (k:Knowledge {id: $knowledge_id})
CREATE (u)-[r:LEARNED {status: $status, progress: $progress, createdAt: $now, updatedAt: $now}]->(k)
RETURN r, u.name AS user_name, k.name AS knowledge_name`, map[string]any{
			"user_id":      in.UserID,
			"knowledge_id": in.KnowledgeID,
			"status":       status,
			"progress":     progress,
			"now":          now,
		})
		if err != nil {
			return nil, err
		}
		link := entityProps(records[0], "r")
		link["user_id"] = in.UserID
		link["knowledge_id"] = in.KnowledgeID
		link["user_name"] = stringVal(records[0], "user_name")
		link["knowledge_name"] = stringVal(records[0], "knowledge_name")
		return link, nil
	})
	if err != nil {
		return nil, err
	}
	return out.(Props), nil
}

// GetUserKnowledge lists the topics a user has started, with link state
// merged in.
func (s *Store) GetUserKnowledge(ctx context.Context, userID string) ([]Props, error) {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	records, err := s.readRecords(ctx, `
MATCH (u:User {id: $user_id})-[r:LEARNED]->(k:Knowledge)
RETURN k, r.status AS status, r.progress AS progress,
       r.createdAt AS linked_at, r.updatedAt AS link_updated_at
ORDER BY k.subject, k.order`, map[string]any{"user_id": userID})
	if err != nil {
		return nil, err
	}
	items := make([]Props, 0, len(records))
	for _, rec := range records {
		k := entityProps(rec, "k")
		k["status"] = stringVal(rec, "status")
		k["progress"] = anyVal(rec, "progress")
		k["linked_at"] = anyVal(rec, "linked_at")
		k["link_updated_at"] = anyVal(rec, "link_updated_at")
		items = append(items, k)
	}
	return items, nil
}

// GetKnowledgeUsers lists users learning a given topic.
func (s *Store) GetKnowledgeUsers(ctx context.Context, knowledgeID string) ([]Props, error) {
	exists, err := s.readRecords(ctx, `MATCH (k:Knowledge {id: $id}) RETURN k.id AS id`, map[string]any{"id": knowledgeID})
	if err != nil {
		return nil, err
	}
	if len(exists) == 0 {
		return nil, apierr.NotFound("knowledge %s not found", knowledgeID)
	}

	records, err := s.readRecords(ctx, `
MATCH (u:User)-[r:LEARNED]->(k:Knowledge {id: $id})
RETURN u, r.status AS status, r.progress AS progress
ORDER BY r.progress DESC, u.name`, map[string]any{"id": knowledgeID})
	if err != nil {
		return nil, err
	}
	users := make([]Props, 0, len(records))
	for _, rec := range records {
		u := entityProps(rec, "u")
		u["status"] = stringVal(rec, "status")
		u["progress"] = anyVal(rec, "progress")
		users = append(users, u)
	}
	return users, nil
}

// UpdateUserKnowledgeProgress adjusts progress and/or status on an existing
// link. Only the supplied fields are changed; progress is clamped to [0, 100].
func (s *Store) UpdateUserKnowledgeProgress(ctx context.Context, userID, knowledgeID string, progress *int, status string) (Props, error) {
	if status != "" && !domain.ValidStatus(status) {
		return nil, apierr.Invalid("status must be one of learning, completed, mastered, reviewing")
	}
	if progress == nil && status == "" {
		return nil, apierr.Invalid("progress or status is required")
	}
	hasProgress := progress != nil
	clamped := 0
	if hasProgress {
		clamped = domain.ClampProgress(*progress)
	}

	session := s.db.WriteSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := runCollect(ctx, tx, `
MATCH (u:User {id: $user_id})-[r:LEARNED]->(k:Knowledge {id: $knowledge_id})
SET r.updatedAt = $now
FOREACH (_ IN CASE WHEN $has_progress THEN [1] ELSE [] END | SET r.progress = $progress)
FOREACH (_ IN CASE WHEN $status <> '' THEN [1] ELSE [] END | SET r.status = $status)
RETURN r, u.name AS user_name, k.name AS knowledge_name`, map[string]any{
			"user_id":      userID,
			"knowledge_id": knowledgeID,
			"has_progress": hasProgress,
			"progress":     clamped,
			"status":       status,
			"now":          nowStamp(),
		})
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, apierr.NotFound("no learning link between user %s and knowledge %s", userID, knowledgeID)
		}
		link := entityProps(records[0], "r")
		link["user_id"] = userID
		link["knowledge_id"] = knowledgeID
		link["user_name"] = stringVal(records[0], "user_name")
		link["knowledge_name"] = stringVal(records[0], "knowledge_name")
		return link, nil
	})
	if err != nil {
		return nil, err
	}
	return out.(Props), nil
}

func (s *Store) UnlinkUserKnowledge(ctx context.Context, userID, knowledgeID string) error {
	session := s.db.WriteSession(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := runCollect(ctx, tx, `
MATCH (u:User {id: $user_id})-[r:LEARNED]->(k:Knowledge {id: $knowledge_id})
DELETE r
RETURN count(r) AS deleted`, map[string]any{"user_id": userID, "knowledge_id": knowledgeID})
		if err != nil {
			return nil, err
		}
		if len(records) == 0 || intVal(records[0], "deleted") == 0 {
			return nil, apierr.NotFound("no learning link between user %s and knowledge %s", userID, knowledgeID)
		}
		return nil, nil
	})
	return err
}

// BulkLinkUserKnowledge creates learning links in bulk using MERGE so
// repeated pairs update rather than duplicate.
func (s *Store) BulkLinkUserKnowledge(ctx context.Context, links []domain.KnowledgeLinkRecord, batchSize int) (*bulk.Outcome, error) {
	if batchSize <= 0 {
		batchSize = bulk.DefaultUserBatchSize
	}
	outcome := bulk.NewOutcome(len(links))

	now := nowStamp()
	valid := make([]map[string]any, 0, len(links))
	userIDs := make([]string, 0, len(links))
	knowledgeIDs := make([]string, 0, len(links))
	seenUsers := make(map[string]bool)
	seenKnowledge := make(map[string]bool)
	for i, l := range links {
		var missing []string
		if strings.TrimSpace(l.UserID) == "" {
			missing = append(missing, "user_id")
		}
		if strings.TrimSpace(l.KnowledgeID) == "" {
			missing = append(missing, "knowledge_id")
		}
		if len(missing) > 0 {
			outcome.Reject("Link", i, "Missing "+strings.Join(missing, ", "))
			continue
		}
		status := l.Status
		if status == "" {
			status = domain.StatusLearning
		}
		if !domain.ValidStatus(status) {
			outcome.Reject("Link", i, fmt.Sprintf("Invalid status %q", l.Status))
			continue
		}
		progress := 0
		if l.Progress != nil {
			progress = domain.ClampProgress(*l.Progress)
		}

		valid = append(valid, map[string]any{
			"user_id":      l.UserID,
			"knowledge_id": l.KnowledgeID,
			"status":       status,
			"progress":     progress,
			"now":          now,
		})
		if !seenUsers[l.UserID] {
			seenUsers[l.UserID] = true
			userIDs = append(userIDs, l.UserID)
		}
		if !seenKnowledge[l.KnowledgeID] {
			seenKnowledge[l.KnowledgeID] = true
			knowledgeIDs = append(knowledgeIDs, l.KnowledgeID)
		}
	}

	if len(valid) == 0 {
		return outcome, apierr.Invalid("no valid links to import")
	}

	session := s.db.WriteSession(ctx)
	defer session.Close(ctx)

	tx, err := session.BeginTransaction(ctx)
	if err != nil {
		return outcome, apierr.New(http.StatusInternalServerError, "transaction_failed", fmt.Errorf("transaction failed: %w", err))
	}

	if err := func() error {
		records, err := runCollect(ctx, tx, `MATCH (u:User) WHERE u.id IN $ids RETURN u.id AS id`, map[string]any{"ids": userIDs})
		if err != nil {
			return err
		}
		existingUsers := collectIDs(records)

		records, err = runCollect(ctx, tx, `MATCH (k:Knowledge) WHERE k.id IN $ids RETURN k.id AS id`, map[string]any{"ids": knowledgeIDs})
		if err != nil {
			return err
		}
		existingKnowledge := collectIDs(records)

		linked := make([]map[string]any, 0, len(valid))
		for _, l := range valid {
			if !existingUsers[l["user_id"].(string)] {
				outcome.RejectRecord(fmt.Sprintf("User %s not found", l["user_id"]))
				continue
			}
			if !existingKnowledge[l["knowledge_id"].(string)] {
				outcome.RejectRecord(fmt.Sprintf("Knowledge %s not found", l["knowledge_id"]))
				continue
			}
			linked = append(linked, l)
		}

		for _, chunk := range bulk.Chunk(linked, batchSize) {
			records, err := runCollect(ctx, tx, `
UNWIND $links AS row
MATCH (u:User {id: row.user_id})
MATCH (k:Knowledge {id: row.knowledge_id})
MERGE (u)-[r:LEARNED]->(k)
ON CREATE SET r.createdAt = row.now
SET r.status = row.status, r.progress = row.progress, r.updatedAt = row.now
RETURN u.id AS user_id, k.id AS knowledge_id, r.status AS status, r.progress AS progress`, map[string]any{"links": chunk})
			if err != nil {
				return err
			}
			for _, rec := range records {
				outcome.Add(recordToMap(rec))
			}
		}
		return tx.Commit(ctx)
	}(); err != nil {
		_ = tx.Rollback(ctx)
		s.log.Error("bulk knowledge link transaction failed", "error", err)
		return bulk.NewOutcome(len(links)), apierr.New(http.StatusInternalServerError, "transaction_failed", fmt.Errorf("transaction failed: %w", err))
	}

	return outcome, nil
}

// KnowledgeAnalytics summarizes every learning link in the system: status
// and progress distributions plus the most-linked topics and most active
// learners.
func (s *Store) KnowledgeAnalytics(ctx context.Context) (Props, error) {
	overall, err := s.readRecords(ctx, `
MATCH (u:User)-[r:LEARNED]->(k:Knowledge)
RETURN count(r) AS total_links, count(DISTINCT u) AS learners,
       count(DISTINCT k) AS topics, avg(r.progress) AS avg_progress`, nil)
	if err != nil {
		return nil, err
	}

	statusRecords, err := s.readRecords(ctx, `
MATCH (:User)-[r:LEARNED]->(:Knowledge)
RETURN r.status AS status, count(r) AS count
ORDER BY count DESC`, nil)
	if err != nil {
		return nil, err
	}
	statuses := make(Props, len(statusRecords))
	for _, rec := range statusRecords {
		statuses[stringVal(rec, "status")] = intVal(rec, "count")
	}

	topKnowledge, err := s.readRecords(ctx, `
MATCH (u:User)-[r:LEARNED]->(k:Knowledge)
RETURN k.id AS id, k.name AS name, k.subject AS subject,
       count(u) AS learners, avg(r.progress) AS avg_progress
ORDER BY learners DESC, avg_progress DESC
LIMIT 10`, nil)
	if err != nil {
		return nil, err
	}
	topics := make([]Props, 0, len(topKnowledge))
	for _, rec := range topKnowledge {
		topics = append(topics, Props{
			"id":           stringVal(rec, "id"),
			"name":         stringVal(rec, "name"),
			"subject":      stringVal(rec, "subject"),
			"learners":     intVal(rec, "learners"),
			"avg_progress": domain.Round2(floatVal(rec, "avg_progress")),
		})
	}

	topUsers, err := s.readRecords(ctx, `
MATCH (u:User)-[r:LEARNED]->(:Knowledge)
RETURN u.id AS id, u.name AS name, count(r) AS topics, avg(r.progress) AS avg_progress
ORDER BY topics DESC, avg_progress DESC
LIMIT 10`, nil)
	if err != nil {
		return nil, err
	}
	users := make([]Props, 0, len(topUsers))
	for _, rec := range topUsers {
		users = append(users, Props{
			"id":           stringVal(rec, "id"),
			"name":         stringVal(rec, "name"),
			"topics":       intVal(rec, "topics"),
			"avg_progress": domain.Round2(floatVal(rec, "avg_progress")),
		})
	}

	out := Props{
		"status_distribution": statuses,
		"top_knowledge":       topics,
		"top_users":           users,
	}
	if len(overall) > 0 {
		rec := overall[0]
		out["total_links"] = intVal(rec, "total_links")
		out["learners"] = intVal(rec, "learners")
		out["topics"] = intVal(rec, "topics")
		out["avg_progress"] = domain.Round2(floatVal(rec, "avg_progress"))
	}
	return out, nil
}

// LearningPath orders a subject's topics for a user: what is done, what is
// in flight, and what comes next by topic order.
func (s *Store) LearningPath(ctx context.Context, userID, subject, grade string) (Props, error) {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	if subject == "" {
		return nil, apierr.Invalid("subject is required")
	}

	records, err := s.readRecords(ctx, `
MATCH (k:Knowledge {subject: $subject})
WHERE ($grade = '' OR k.grade = $grade)
OPTIONAL MATCH (u:User {id: $user_id})-[r:LEARNED]->(k)
RETURN k, r.status AS status, r.progress AS progress
ORDER BY k.grade, k.order`, map[string]any{
		"user_id": userID,
		"subject": subject,
		"grade":   grade,
	})
	if err != nil {
		return nil, err
	}

	completed := make([]Props, 0)
	inProgress := make([]Props, 0)
	upNext := make([]Props, 0)
	for _, rec := range records {
		k := entityProps(rec, "k")
		status := stringVal(rec, "status")
		k["status"] = status
		k["progress"] = anyVal(rec, "progress")
		switch status {
		case domain.StatusCompleted, domain.StatusMastered:
			completed = append(completed, k)
		case domain.StatusLearning, domain.StatusReviewing:
			inProgress = append(inProgress, k)
		default:
			upNext = append(upNext, k)
		}
	}

	return Props{
		"user_id":      userID,
		"subject":      subject,
		"grade":        grade,
		"completed":    completed,
		"in_progress":  inProgress,
		"up_next":      upNext,
		"total_topics": len(records),
	}, nil
}
