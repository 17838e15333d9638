package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/debits/internal/ports/secondary"
)

// ChecklistRepository implements secondary.ChecklistRepository with SQLite.
type ChecklistRepository struct {
	db *sql.DB
}

// NewChecklistRepository creates a new SQLite checklist repository.
func NewChecklistRepository(db *sql.DB) *ChecklistRepository {
	return &ChecklistRepository{db: db}
}

// CreateTemplate stores a named template with its ordered items. Item order is
// fixed at creation time via the position column.
func (r *ChecklistRepository) CreateTemplate(ctx context.Context, name, workspaceID, creatorID string, items []string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existing int64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM checklist_templates WHERE workspace_id = ? AND name = ?",
		workspaceID, name,
	).Scan(&existing)
	if err == nil {
		return 0, secondary.ErrTemplateExists
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to check template name: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		"INSERT INTO checklist_templates (workspace_id, name, created_by) VALUES (?, ?, ?)",
		workspaceID, name, creatorID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create template: %w", err)
	}
	templateID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read template id: %w", err)
	}

	for position, text := range items {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO checklist_items (template_id, item_text, position) VALUES (?, ?, ?)",
			templateID, text, position,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to create template item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit template: %w", err)
	}
	return templateID, nil
}

// TemplateByName retrieves a template with its ordered items.
func (r *ChecklistRepository) TemplateByName(ctx context.Context, name, workspaceID string) (*secondary.TemplateRecord, error) {
	record := &secondary.TemplateRecord{WorkspaceID: workspaceID, Name: name}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, created_by, created_at FROM checklist_templates WHERE workspace_id = ? AND name = ?",
		workspaceID, name,
	).Scan(&record.ID, &record.CreatedBy, &record.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, secondary.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	items, err := r.templateItems(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	record.Items = items
	return record, nil
}

func (r *ChecklistRepository) templateItems(ctx context.Context, templateID int64) ([]*secondary.ItemRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, item_text, position FROM checklist_items WHERE template_id = ? ORDER BY position",
		templateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list template items: %w", err)
	}
	defer rows.Close()

	var items []*secondary.ItemRecord
	for rows.Next() {
		item := &secondary.ItemRecord{}
		if err := rows.Scan(&item.ID, &item.Text, &item.Position); err != nil {
			return nil, fmt.Errorf("failed to scan template item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate template items: %w", err)
	}
	return items, nil
}

// ListTemplates retrieves template names for a workspace ordered by name.
func (r *ChecklistRepository) ListTemplates(ctx context.Context, workspaceID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT name FROM checklist_templates WHERE workspace_id = ? ORDER BY name",
		workspaceID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan template name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate templates: %w", err)
	}
	return names, nil
}

// DeleteTemplate removes a template and everything hanging off it inside one
// transaction: item statuses, instances, items, then the template row.
func (r *ChecklistRepository) DeleteTemplate(ctx context.Context, name, workspaceID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var templateID int64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM checklist_templates WHERE workspace_id = ? AND name = ?",
		workspaceID, name,
	).Scan(&templateID)
	if err == sql.ErrNoRows {
		return secondary.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to find template: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM checklist_item_statuses WHERE instance_id IN (SELECT id FROM checklist_instances WHERE template_id = ?)",
		templateID,
	); err != nil {
		return fmt.Errorf("failed to delete item statuses: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM checklist_instances WHERE template_id = ?", templateID); err != nil {
		return fmt.Errorf("failed to delete instances: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM checklist_items WHERE template_id = ?", templateID); err != nil {
		return fmt.Errorf("failed to delete items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM checklist_templates WHERE id = ?", templateID); err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit template delete: %w", err)
	}
	return nil
}

// CreateInstance creates one posting of a template and seeds one unchecked
// status row per item. The status set is fixed here; toggling never adds or
// removes rows.
func (r *ChecklistRepository) CreateInstance(ctx context.Context, templateID int64, channelID, messageRef string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		"SELECT id FROM checklist_items WHERE template_id = ? ORDER BY position",
		templateID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to list template items: %w", err)
	}
	var itemIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan item id: %w", err)
		}
		itemIDs = append(itemIDs, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("failed to iterate item ids: %w", err)
	}
	rows.Close()

	if len(itemIDs) == 0 {
		return 0, secondary.ErrNoItems
	}

	result, err := tx.ExecContext(ctx,
		"INSERT INTO checklist_instances (template_id, channel_id, message_ts) VALUES (?, ?, ?)",
		templateID, channelID, nullString(messageRef),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create instance: %w", err)
	}
	instanceID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read instance id: %w", err)
	}

	for _, itemID := range itemIDs {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO checklist_item_statuses (instance_id, item_id, is_checked) VALUES (?, ?, 0)",
			instanceID, itemID,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to seed item status: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit instance: %w", err)
	}
	return instanceID, nil
}

// SetInstanceMessageRef updates the message reference after posting.
func (r *ChecklistRepository) SetInstanceMessageRef(ctx context.Context, instanceID int64, messageRef string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE checklist_instances SET message_ts = ? WHERE id = ?",
		messageRef, instanceID,
	)
	if err != nil {
		return fmt.Errorf("failed to set message ref: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check message ref update: %w", err)
	}
	if affected == 0 {
		return secondary.ErrNotFound
	}
	return nil
}

// UpdateItem flips one item's checked state and recomputes completion.
// AllComplete reports the incomplete-to-complete transition only: once an
// instance is complete, further toggles never re-fire it, and unchecking
// never clears is_complete.
func (r *ChecklistRepository) UpdateItem(ctx context.Context, instanceID, itemID int64, checked bool, userID string) (*secondary.ToggleResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current bool
	err = tx.QueryRowContext(ctx,
		"SELECT is_checked FROM checklist_item_statuses WHERE instance_id = ? AND item_id = ?",
		instanceID, itemID,
	).Scan(&current)
	if err == sql.ErrNoRows {
		return nil, secondary.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read item status: %w", err)
	}

	if checked {
		_, err = tx.ExecContext(ctx,
			"UPDATE checklist_item_statuses SET is_checked = 1, checked_by = ?, checked_at = ? WHERE instance_id = ? AND item_id = ?",
			userID, time.Now().UTC(), instanceID, itemID,
		)
	} else {
		_, err = tx.ExecContext(ctx,
			"UPDATE checklist_item_statuses SET is_checked = 0, checked_by = NULL, checked_at = NULL WHERE instance_id = ? AND item_id = ?",
			instanceID, itemID,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update item status: %w", err)
	}

	var unchecked int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM checklist_item_statuses WHERE instance_id = ? AND is_checked = 0",
		instanceID,
	).Scan(&unchecked)
	if err != nil {
		return nil, fmt.Errorf("failed to count unchecked items: %w", err)
	}

	var alreadyComplete bool
	err = tx.QueryRowContext(ctx,
		"SELECT is_complete FROM checklist_instances WHERE id = ?",
		instanceID,
	).Scan(&alreadyComplete)
	if err != nil {
		return nil, fmt.Errorf("failed to read instance: %w", err)
	}

	completedNow := unchecked == 0 && !alreadyComplete
	if completedNow {
		// The guard on is_complete keeps the completion latch exactly-once
		// even if two toggles race on the final item.
		_, err = tx.ExecContext(ctx,
			"UPDATE checklist_instances SET is_complete = 1, completed_at = ? WHERE id = ? AND is_complete = 0",
			time.Now().UTC(), instanceID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to mark instance complete: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit item toggle: %w", err)
	}

	return &secondary.ToggleResult{InstanceID: instanceID, AllComplete: completedNow}, nil
}

// Instance retrieves the full instance view with items in template order.
func (r *ChecklistRepository) Instance(ctx context.Context, instanceID int64) (*secondary.InstanceView, error) {
	view := &secondary.InstanceView{ID: instanceID}
	var messageRef sql.NullString
	var completedAt sql.NullTime

	err := r.db.QueryRowContext(ctx,
		`SELECT i.template_id, t.name, i.channel_id, i.message_ts, i.is_complete, i.created_at, i.completed_at
		 FROM checklist_instances i
		 JOIN checklist_templates t ON t.id = i.template_id
		 WHERE i.id = ?`,
		instanceID,
	).Scan(&view.TemplateID, &view.Name, &view.ChannelID, &messageRef, &view.IsComplete, &view.CreatedAt, &completedAt)
	if err == sql.ErrNoRows {
		return nil, secondary.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get instance: %w", err)
	}

	view.MessageRef = messageRef.String
	if completedAt.Valid {
		t := completedAt.Time
		view.CompletedAt = &t
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT s.item_id, c.item_text, c.position, s.is_checked, s.checked_by, s.checked_at
		 FROM checklist_item_statuses s
		 JOIN checklist_items c ON c.id = s.item_id
		 WHERE s.instance_id = ?
		 ORDER BY c.position`,
		instanceID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list instance items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item := &secondary.InstanceItem{}
		var checkedBy sql.NullString
		var checkedAt sql.NullTime
		if err := rows.Scan(&item.ItemID, &item.Text, &item.Position, &item.Checked, &checkedBy, &checkedAt); err != nil {
			return nil, fmt.Errorf("failed to scan instance item: %w", err)
		}
		item.CheckedBy = checkedBy.String
		if checkedAt.Valid {
			t := checkedAt.Time
			item.CheckedAt = &t
		}
		view.Items = append(view.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate instance items: %w", err)
	}

	return view, nil
}
