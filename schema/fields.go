package schema

import "event-manager-backend/model"

var imageMimeTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"png":  "image/png",
}

// Countries are the options of the country selects.
var Countries = []model.Option{
	{Value: "Argentina", Label: "Argentina"},
	{Value: "Australia", Label: "Australia"},
	{Value: "Austria", Label: "Austria"},
	{Value: "Belgium", Label: "Belgium"},
	{Value: "Brazil", Label: "Brazil"},
	{Value: "Canada", Label: "Canada"},
	{Value: "Chile", Label: "Chile"},
	{Value: "Colombia", Label: "Colombia"},
	{Value: "Denmark", Label: "Denmark"},
	{Value: "France", Label: "France"},
	{Value: "Germany", Label: "Germany"},
	{Value: "India", Label: "India"},
	{Value: "Ireland", Label: "Ireland"},
	{Value: "Italy", Label: "Italy"},
	{Value: "Japan", Label: "Japan"},
	{Value: "Mexico", Label: "Mexico"},
	{Value: "Netherlands", Label: "Netherlands"},
	{Value: "Portugal", Label: "Portugal"},
	{Value: "Spain", Label: "Spain"},
	{Value: "Sweden", Label: "Sweden"},
	{Value: "Switzerland", Label: "Switzerland"},
	{Value: "United Kingdom", Label: "United Kingdom"},
	{Value: "United States", Label: "United States"},
	{Value: "Uruguay", Label: "Uruguay"},
}

func text(key, label, placeholder string, priority int) model.Field {
	return model.Field{Key: key, Label: label, Type: model.FieldText, Placeholder: placeholder, Priority: priority, Visibility: true}
}

func eventFields() []model.Field {
	return []model.Field{
		{Key: "event_title", Label: "Event Title", Type: model.FieldText, Required: true, Placeholder: "Event title", Priority: 1, Visibility: true},
		{Key: "event_type", Label: "Event Type", Type: model.FieldTermSelect, Taxonomy: model.TaxonomyEventType, Priority: 2, Visibility: true},
		{Key: "event_category", Label: "Event Sounds", Type: model.FieldTermMultiselect, Taxonomy: model.TaxonomyCategory, Priority: 3, Visibility: true},
		{Key: "event_online", Label: "Online Event", Type: model.FieldRadio, Default: "no", Priority: 4, Visibility: true,
			Options: []model.Option{{Value: "yes", Label: "Yes"}, {Value: "no", Label: "No"}}},
		text("event_location", "Event Location", "Location for google map", 5),
		text("event_pincode", "Postal Code", "Postal code of the location", 6),
		{Key: "event_banner", Label: "Event Banner", Type: model.FieldFile, Multiple: true, AllowedMimeTypes: imageMimeTypes, Priority: 7, Visibility: true},
		{Key: "event_description", Label: "Description", Type: model.FieldRichText, Required: true, Priority: 8, Visibility: true},
		text("registration", "Registration Email/URL", "Enter an email address or website URL", 9),
		{Key: "event_start_date", Label: "Start Date", Type: model.FieldDate, Required: true, Priority: 10, Visibility: true},
		{Key: "event_start_time", Label: "Start Time", Type: model.FieldTime, Priority: 11, Visibility: true},
		{Key: "event_end_date", Label: "End Date", Type: model.FieldDate, Priority: 12, Visibility: true},
		{Key: "event_end_time", Label: "End Time", Type: model.FieldTime, Priority: 13, Visibility: true},
		{Key: "event_timezone", Label: "Timezone", Type: model.FieldSelect, Priority: 14, Visibility: true},
		{Key: "event_ticket_options", Label: "Ticket Options", Type: model.FieldRadio, Default: model.TicketFree, Priority: 15, Visibility: true,
			Options: []model.Option{{Value: model.TicketPaid, Label: "Paid"}, {Value: model.TicketFree, Label: "Free"}}},
		text("event_ticket_price", "Ticket Price", "Ticket price", 16),
		{Key: "event_registration_deadline", Label: "Registration Deadline", Type: model.FieldDate, Priority: 17, Visibility: true},
		{Key: "event_djs", Label: "DJs", Type: model.FieldMultiselect, Priority: 18, Visibility: true},
		{Key: "event_dj_name", Label: "DJ Name", Type: model.FieldText, Priority: 19, Visibility: true, AdminOnly: true},
		{Key: "event_local", Label: "Local", Type: model.FieldSelect, Priority: 20, Visibility: true},
		{Key: "event_local_name", Label: "Local Name", Type: model.FieldText, Priority: 21, Visibility: true, AdminOnly: true},
	}
}

func djFields() []model.Field {
	return []model.Field{
		{Key: "dj_name", Label: "dj name", Type: model.FieldText, Required: true, Placeholder: "Enter the name of the dj", Priority: 1, Visibility: true},
		{Key: "dj_logo", Label: "Logo", Type: model.FieldFile, AllowedMimeTypes: imageMimeTypes, Priority: 2, Visibility: true},
		{Key: "dj_description", Label: "dj Description", Type: model.FieldRichText, Required: true, Priority: 3, Visibility: true},
		{Key: "dj_country", Label: "dj Country", Type: model.FieldSelect, Required: true, Options: Countries, Priority: 4, Visibility: true},
		{Key: "dj_email", Label: "dj Email", Type: model.FieldEmail, Required: true, Placeholder: "Enter your email address", Priority: 5, Visibility: true},
		{Key: "dj_website", Label: "Website", Type: model.FieldURL, Placeholder: "Website URL e.g http://www.yourorganization.com", Priority: 6, Visibility: true},
		text("dj_facebook", "Facebook", "Facebook URL e.g http://www.facebook.com/yourdj", 7),
		text("dj_instagram", "Instagram", "Instagram URL e.g http://www.instagram.com/yourdj", 8),
		text("dj_youtube", "Youtube", "Youtube Channel URL e.g http://www.youtube.com/channel/yourdj", 9),
		text("dj_twitter", "Twitter", "Twitter URL e.g http://twitter.com/yourdj", 10),
	}
}

func localFields() []model.Field {
	return []model.Field{
		{Key: "local_name", Label: "local Name", Type: model.FieldText, Required: true, Placeholder: "Please enter the local name", Priority: 1, Visibility: true},
		{Key: "local_description", Label: "local Description", Type: model.FieldRichText, Required: true, Priority: 2, Visibility: true},
		{Key: "local_logo", Label: "Logo", Type: model.FieldFile, AllowedMimeTypes: imageMimeTypes, Priority: 3, Visibility: true},
		{Key: "local_website", Label: "Website", Type: model.FieldURL, Placeholder: "Website URL e.g http://www.yourorganization.com", Priority: 4, Visibility: true},
		text("local_facebook", "Facebook", "Facebook URL e.g http://www.facebook.com/yourlocal", 5),
		text("local_instagram", "Instagram", "Instagram URL e.g http://www.instagram.com/yourlocal", 6),
		text("local_youtube", "Youtube", "Youtube Channel URL e.g http://www.youtube.com/channel/yourlocal", 7),
		text("local_twitter", "Twitter", "Twitter URL e.g http://twitter.com/yourlocal", 8),
		{Key: "local_country", Label: "local Country", Type: model.FieldHidden, Required: true, Default: "Brazil", Priority: 9, Visibility: true},
	}
}

// Defaults returns a fresh copy of the built-in schema of kind.
func Defaults(kind model.Kind) []model.Field {
	switch kind {
	case model.KindDJ:
		return djFields()
	case model.KindLocal:
		return localFields()
	}
	return eventFields()
}
