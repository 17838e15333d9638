package app_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/example/debits/internal/ports/secondary"
)

// fakeLedgerRepo is an in-memory secondary.LedgerRepository. Setting fail
// makes every call return a synthetic storage fault.
type fakeLedgerRepo struct {
	balances map[string]int64 // key: workspace + "/" + user
	fail     bool
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{balances: make(map[string]int64)}
}

func ledgerKey(workspaceID, userID string) string {
	return workspaceID + "/" + userID
}

func (f *fakeLedgerRepo) Add(_ context.Context, workspaceID, userID string, amount int64, _ string) (*secondary.BalanceChange, error) {
	if f.fail {
		return nil, fmt.Errorf("disk on fire")
	}
	key := ledgerKey(workspaceID, userID)
	previous := f.balances[key]
	f.balances[key] = previous + amount
	return &secondary.BalanceChange{Previous: previous, Amount: amount, Current: previous + amount}, nil
}

func (f *fakeLedgerRepo) Remove(_ context.Context, workspaceID, userID string, amount int64, _ string) (*secondary.BalanceChange, error) {
	if f.fail {
		return nil, fmt.Errorf("disk on fire")
	}
	key := ledgerKey(workspaceID, userID)
	previous, ok := f.balances[key]
	if !ok {
		return nil, secondary.ErrNotFound
	}
	if previous < amount {
		return nil, secondary.ErrInsufficientBalance
	}
	f.balances[key] = previous - amount
	return &secondary.BalanceChange{Previous: previous, Amount: amount, Current: previous - amount}, nil
}

func (f *fakeLedgerRepo) Get(_ context.Context, workspaceID, userID string) (*secondary.LedgerRecord, error) {
	if f.fail {
		return nil, fmt.Errorf("disk on fire")
	}
	balance, ok := f.balances[ledgerKey(workspaceID, userID)]
	if !ok {
		return nil, secondary.ErrNotFound
	}
	return &secondary.LedgerRecord{WorkspaceID: workspaceID, UserID: userID, Balance: balance}, nil
}

func (f *fakeLedgerRepo) List(_ context.Context, workspaceID string) ([]*secondary.LedgerRecord, error) {
	if f.fail {
		return nil, fmt.Errorf("disk on fire")
	}
	var records []*secondary.LedgerRecord
	prefix := workspaceID + "/"
	for key, balance := range f.balances {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			records = append(records, &secondary.LedgerRecord{
				WorkspaceID: workspaceID,
				UserID:      key[len(prefix):],
				Balance:     balance,
			})
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Balance != records[j].Balance {
			return records[i].Balance > records[j].Balance
		}
		return records[i].UserID < records[j].UserID
	})
	return records, nil
}

func (f *fakeLedgerRepo) Reset(_ context.Context, workspaceID string) (int64, error) {
	if f.fail {
		return 0, fmt.Errorf("disk on fire")
	}
	prefix := workspaceID + "/"
	var count int64
	for key := range f.balances {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			delete(f.balances, key)
			count++
		}
	}
	return count, nil
}

// fakeChecklistRepo is an in-memory secondary.ChecklistRepository.
type fakeChecklistRepo struct {
	templates map[int64]*secondary.TemplateRecord
	instances map[int64]*secondary.InstanceView
	nextID    int64
	fail      bool
}

func newFakeChecklistRepo() *fakeChecklistRepo {
	return &fakeChecklistRepo{
		templates: make(map[int64]*secondary.TemplateRecord),
		instances: make(map[int64]*secondary.InstanceView),
	}
}

func (f *fakeChecklistRepo) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeChecklistRepo) CreateTemplate(_ context.Context, name, workspaceID, creatorID string, items []string) (int64, error) {
	if f.fail {
		return 0, fmt.Errorf("disk on fire")
	}
	for _, t := range f.templates {
		if t.WorkspaceID == workspaceID && t.Name == name {
			return 0, secondary.ErrTemplateExists
		}
	}
	record := &secondary.TemplateRecord{
		ID:          f.id(),
		WorkspaceID: workspaceID,
		Name:        name,
		CreatedBy:   creatorID,
		CreatedAt:   time.Now().UTC(),
	}
	for i, text := range items {
		record.Items = append(record.Items, &secondary.ItemRecord{ID: f.id(), Text: text, Position: i})
	}
	f.templates[record.ID] = record
	return record.ID, nil
}

func (f *fakeChecklistRepo) TemplateByName(_ context.Context, name, workspaceID string) (*secondary.TemplateRecord, error) {
	if f.fail {
		return nil, fmt.Errorf("disk on fire")
	}
	for _, t := range f.templates {
		if t.WorkspaceID == workspaceID && t.Name == name {
			return t, nil
		}
	}
	return nil, secondary.ErrNotFound
}

func (f *fakeChecklistRepo) ListTemplates(_ context.Context, workspaceID string) ([]string, error) {
	if f.fail {
		return nil, fmt.Errorf("disk on fire")
	}
	var names []string
	for _, t := range f.templates {
		if t.WorkspaceID == workspaceID {
			names = append(names, t.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (f *fakeChecklistRepo) DeleteTemplate(_ context.Context, name, workspaceID string) error {
	if f.fail {
		return fmt.Errorf("disk on fire")
	}
	for id, t := range f.templates {
		if t.WorkspaceID == workspaceID && t.Name == name {
			delete(f.templates, id)
			for instanceID, instance := range f.instances {
				if instance.TemplateID == id {
					delete(f.instances, instanceID)
				}
			}
			return nil
		}
	}
	return secondary.ErrNotFound
}

func (f *fakeChecklistRepo) CreateInstance(_ context.Context, templateID int64, channelID, messageRef string) (int64, error) {
	if f.fail {
		return 0, fmt.Errorf("disk on fire")
	}
	template, ok := f.templates[templateID]
	if !ok {
		return 0, secondary.ErrNotFound
	}
	if len(template.Items) == 0 {
		return 0, secondary.ErrNoItems
	}
	view := &secondary.InstanceView{
		ID:         f.id(),
		TemplateID: templateID,
		Name:       template.Name,
		ChannelID:  channelID,
		MessageRef: messageRef,
		CreatedAt:  time.Now().UTC(),
	}
	for _, item := range template.Items {
		view.Items = append(view.Items, &secondary.InstanceItem{
			ItemID:   item.ID,
			Text:     item.Text,
			Position: item.Position,
		})
	}
	f.instances[view.ID] = view
	return view.ID, nil
}

func (f *fakeChecklistRepo) SetInstanceMessageRef(_ context.Context, instanceID int64, messageRef string) error {
	if f.fail {
		return fmt.Errorf("disk on fire")
	}
	instance, ok := f.instances[instanceID]
	if !ok {
		return secondary.ErrNotFound
	}
	instance.MessageRef = messageRef
	return nil
}

func (f *fakeChecklistRepo) UpdateItem(_ context.Context, instanceID, itemID int64, checked bool, userID string) (*secondary.ToggleResult, error) {
	if f.fail {
		return nil, fmt.Errorf("disk on fire")
	}
	instance, ok := f.instances[instanceID]
	if !ok {
		return nil, secondary.ErrNotFound
	}
	var found *secondary.InstanceItem
	for _, item := range instance.Items {
		if item.ItemID == itemID {
			found = item
			break
		}
	}
	if found == nil {
		return nil, secondary.ErrNotFound
	}
	found.Checked = checked
	if checked {
		now := time.Now().UTC()
		found.CheckedBy = userID
		found.CheckedAt = &now
	} else {
		found.CheckedBy = ""
		found.CheckedAt = nil
	}
	allChecked := true
	for _, item := range instance.Items {
		if !item.Checked {
			allChecked = false
			break
		}
	}
	completedNow := allChecked && !instance.IsComplete
	if completedNow {
		now := time.Now().UTC()
		instance.IsComplete = true
		instance.CompletedAt = &now
	}
	return &secondary.ToggleResult{InstanceID: instanceID, AllComplete: completedNow}, nil
}

func (f *fakeChecklistRepo) Instance(_ context.Context, instanceID int64) (*secondary.InstanceView, error) {
	if f.fail {
		return nil, fmt.Errorf("disk on fire")
	}
	instance, ok := f.instances[instanceID]
	if !ok {
		return nil, secondary.ErrNotFound
	}
	return instance, nil
}

// fakeScheduleRepo is an in-memory secondary.ScheduleRepository.
type fakeScheduleRepo struct {
	schedules map[string]*secondary.ReportSchedule
	modes     map[string]secondary.ResetMode
	fail      bool
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{
		schedules: make(map[string]*secondary.ReportSchedule),
		modes:     make(map[string]secondary.ResetMode),
	}
}

func (f *fakeScheduleRepo) SetReportSchedule(_ context.Context, workspaceID string, day time.Weekday, hour int) error {
	if f.fail {
		return fmt.Errorf("disk on fire")
	}
	f.schedules[workspaceID] = &secondary.ReportSchedule{WorkspaceID: workspaceID, Day: day, Hour: hour}
	return nil
}

func (f *fakeScheduleRepo) ListReportSchedules(_ context.Context) ([]*secondary.ReportSchedule, error) {
	if f.fail {
		return nil, fmt.Errorf("disk on fire")
	}
	var out []*secondary.ReportSchedule
	for _, s := range f.schedules {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WorkspaceID < out[j].WorkspaceID })
	return out, nil
}

func (f *fakeScheduleRepo) SetResetMode(_ context.Context, workspaceID string, mode secondary.ResetMode) error {
	if f.fail {
		return fmt.Errorf("disk on fire")
	}
	f.modes[workspaceID] = mode
	return nil
}

func (f *fakeScheduleRepo) ListResetModes(_ context.Context) ([]*secondary.ResetModeRecord, error) {
	if f.fail {
		return nil, fmt.Errorf("disk on fire")
	}
	var out []*secondary.ResetModeRecord
	for workspaceID, mode := range f.modes {
		out = append(out, &secondary.ResetModeRecord{WorkspaceID: workspaceID, Mode: mode})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WorkspaceID < out[j].WorkspaceID })
	return out, nil
}
