package hook

// Hook names used across the service.
const (
	// HideEvent filters a bool: true hides the *model.Event from listings.
	HideEvent = "event_manager_hide_event"
	// ValidSubmitStatuses filters the []string of statuses a submitted entity may be resumed from.
	ValidSubmitStatuses = "wp_event_manager_valid_submit_%s_statuses"
	// SubmitSteps filters the extra submission steps of a kind.
	SubmitSteps = "submit_%s_steps"
	// DashboardAction is emitted after a dashboard action: event_manager_my_<kind>_do_action.
	DashboardAction = "event_manager_my_%s_do_action"
	// UnknownDashboardAction receives actions the dashboard does not handle itself.
	UnknownDashboardAction = "event_manager_%s_dashboard_do_action_%s"
	// EntitySubmitted is emitted after a successful final submit.
	EntitySubmitted = "event_manager_%s_submitted"
	// EntityUpdated is emitted after an edit is saved.
	EntityUpdated = "event_manager_%s_updated"
	// EventCancelled is emitted when the cancelled flag is set.
	EventCancelled = "event_manager_event_cancelled"
)
