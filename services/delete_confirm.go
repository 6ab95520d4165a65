package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/siravitrin-eng/the-pos-67079349/models"
)

type flowState int

const (
	flowIdle flowState = iota
	flowPending
	flowExecuting
)

// ConfirmFlow guards destructive catalog operations for one editing
// surface: Idle -> PendingConfirmation(intent) -> Executing -> Idle, with
// Abort returning from Pending to Idle side-effect free. It also owns
// that surface's bulk Selection Set.
type ConfirmFlow struct {
	mu        sync.Mutex
	state     flowState
	intent    *models.DeleteIntent
	selected  map[string]bool
	selOrder  []string
	inventory InventoryService
	logger    *zap.Logger
}

func NewConfirmFlow(inventory InventoryService, logger *zap.Logger) *ConfirmFlow {
	return &ConfirmFlow{
		selected:  make(map[string]bool),
		inventory: inventory,
		logger:    logger,
	}
}

// ToggleSelect flips one id in or out of the selection.
func (f *ConfirmFlow) ToggleSelect(id string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.selected[id] {
		delete(f.selected, id)
		for i, sid := range f.selOrder {
			if sid == id {
				f.selOrder = append(f.selOrder[:i], f.selOrder[i+1:]...)
				break
			}
		}
	} else {
		f.selected[id] = true
		f.selOrder = append(f.selOrder, id)
	}
	return f.selectedIDsLocked()
}

// ToggleSelectAll selects every given id, or empties the selection when
// it already covers all of them.
func (f *ConfirmFlow) ToggleSelectAll(allIDs []string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(allIDs) > 0 && len(f.selected) == len(allIDs) {
		f.clearSelectionLocked()
		return f.selectedIDsLocked()
	}

	f.clearSelectionLocked()
	for _, id := range allIDs {
		f.selected[id] = true
		f.selOrder = append(f.selOrder, id)
	}
	return f.selectedIDsLocked()
}

// SelectedIDs returns the current selection in toggle order.
func (f *ConfirmFlow) SelectedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selectedIDsLocked()
}

func (f *ConfirmFlow) selectedIDsLocked() []string {
	ids := make([]string, len(f.selOrder))
	copy(ids, f.selOrder)
	return ids
}

func (f *ConfirmFlow) clearSelectionLocked() {
	f.selected = make(map[string]bool)
	f.selOrder = nil
}

// Request captures a delete intent with its display count. Only one
// intent may be pending per surface; it must be resolved before further
// catalog mutation.
func (f *ConfirmFlow) Request(kind models.IntentKind, targetID string, catalogIDs []string) (*models.DeleteIntent, *ServiceError) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != flowIdle {
		return nil, NewConflictError("A delete is already awaiting confirmation")
	}

	intent := &models.DeleteIntent{
		ID:   uuid.New().String(),
		Kind: kind,
	}

	switch kind {
	case models.IntentSingle:
		if targetID == "" {
			return nil, NewValidationError("Target id is required")
		}
		intent.TargetID = targetID
		intent.Count = 1
	case models.IntentBulk:
		if len(f.selOrder) == 0 {
			return nil, NewValidationError("No products selected")
		}
		intent.TargetIDs = f.selectedIDsLocked()
		intent.Count = len(intent.TargetIDs)
	case models.IntentClearAll:
		intent.Count = len(catalogIDs)
	default:
		return nil, NewValidationError("Unknown delete kind")
	}

	f.state = flowPending
	f.intent = intent
	return intent, nil
}

// Confirm executes the pending intent. Calls while Executing are ignored
// so a double tap cannot issue the delete twice. The flow always returns
// to Idle; on failure the selection survives untouched.
func (f *ConfirmFlow) Confirm(ctx context.Context, intentID string) *ServiceError {
	f.mu.Lock()
	if f.state == flowExecuting {
		f.mu.Unlock()
		return nil
	}
	if f.state != flowPending || f.intent == nil {
		f.mu.Unlock()
		return NewConflictError("No delete awaiting confirmation")
	}
	if f.intent.ID != intentID {
		f.mu.Unlock()
		return NewNotFoundError("Unknown delete intent")
	}

	intent := *f.intent
	f.state = flowExecuting
	f.mu.Unlock()

	var svcErr *ServiceError
	switch intent.Kind {
	case models.IntentSingle:
		svcErr = f.inventory.Remove(ctx, intent.TargetID)
	case models.IntentBulk:
		svcErr = f.inventory.RemoveMany(ctx, intent.TargetIDs)
	case models.IntentClearAll:
		svcErr = f.inventory.RemoveAll(ctx)
	}

	f.mu.Lock()
	f.state = flowIdle
	f.intent = nil
	if svcErr == nil && intent.Kind != models.IntentSingle {
		f.clearSelectionLocked()
	}
	f.mu.Unlock()

	if svcErr != nil {
		f.logger.Warn("Delete failed", zap.String("kind", string(intent.Kind)), zap.Error(svcErr))
		return svcErr
	}
	return nil
}

// Abort cancels a pending intent with no side effect. Aborting while the
// delete is executing is rejected; the transition never skips Executing.
func (f *ConfirmFlow) Abort(intentID string) *ServiceError {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == flowExecuting {
		return NewConflictError("Delete already in progress")
	}
	if f.state != flowPending || f.intent == nil {
		return NewConflictError("No delete awaiting confirmation")
	}
	if f.intent.ID != intentID {
		return NewNotFoundError("Unknown delete intent")
	}

	f.state = flowIdle
	f.intent = nil
	return nil
}

// ConfirmFlowRegistry hands each session its own confirmation flow.
type ConfirmFlowRegistry struct {
	mu        sync.Mutex
	flows     map[string]*ConfirmFlow
	inventory InventoryService
	logger    *zap.Logger
}

func NewConfirmFlowRegistry(inventory InventoryService, logger *zap.Logger) *ConfirmFlowRegistry {
	return &ConfirmFlowRegistry{
		flows:     make(map[string]*ConfirmFlow),
		inventory: inventory,
		logger:    logger,
	}
}

func (r *ConfirmFlowRegistry) Flow(sessionID string) *ConfirmFlow {
	r.mu.Lock()
	defer r.mu.Unlock()

	flow, ok := r.flows[sessionID]
	if !ok {
		flow = NewConfirmFlow(r.inventory, r.logger)
		r.flows[sessionID] = flow
	}
	return flow
}
