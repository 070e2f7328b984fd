package render

const fragments = `
{{define "alert"}}<div class="event-manager-{{if .Error}}error{{else}}message{{end}}">{{.Message}}</div>{{end}}

{{define "no_results"}}<li class="no_event_listings_found">{{.}}</li>{{end}}

{{define "showing_links"}}<a href="{{.Reset}}" class="reset">Reset</a>{{if .Feed}} <a href="{{.Feed}}" class="rss_link">RSS</a>{{end}}{{end}}

{{define "pagination"}}<nav class="event-manager-pagination"><ul>
{{- if gt .Current 1}}<li><a href="#" data-page="{{add .Current -1}}">&larr;</a></li>{{end}}
{{- range .Pages}}{{if .Gap}}<li><span class="gap">&hellip;</span></li>{{else if .Current}}<li><span class="current">{{.Number}}</span></li>{{else}}<li><a href="#" data-page="{{.Number}}">{{.Number}}</a></li>{{end}}{{end}}
{{- if lt .Current .MaxPages}}<li><a href="#" data-page="{{add .Current 1}}">&rarr;</a></li>{{end}}
</ul></nav>{{end}}

{{define "event_row"}}<div class="wpem-event-layout-wrapper{{if .Featured}} wpem-event-featured{{end}}{{if .Cancelled}} wpem-event-cancelled{{end}}" data-id="{{.ID}}">
<a href="{{.URL}}" class="wpem-event-action-url">
{{- if .Banner}}<div class="wpem-event-banner"><img src="{{.Banner}}" alt="{{.Title}}"></div>{{end}}
<div class="wpem-event-infomation">
<h3 class="wpem-heading-text">{{.Title}}</h3>
{{- if .Date}}<div class="wpem-event-date-time"><span class="wpem-event-date-time-text">{{.Date}}{{if .EndDate}} - {{.EndDate}}{{end}}</span></div>{{end}}
<div class="wpem-event-location"><span class="wpem-event-location-text">{{.Location}}</span></div>
{{- if .Types}}<div class="wpem-event-type">{{range .Types}}<span class="wpem-event-type-text">{{.}}</span>{{end}}</div>{{end}}
{{- if .DJs}}<div class="wpem-event-djs">{{join .DJs ", "}}</div>{{end}}
{{- if .Local}}<div class="wpem-event-local">{{.Local}}</div>{{end}}
{{- if .Ticket}}<div class="wpem-event-ticket-type">{{.Ticket}}</div>{{end}}
{{- if .Cancelled}}<span class="event-cancelled">Cancelled</span>{{end}}
</div></a>
{{- if .MapLink}}<a class="wpem-event-map-link" href="{{.MapLink}}" target="_blank" rel="noopener">Map</a>{{end}}
</div>
{{end}}

{{define "event_rows"}}{{range .}}{{template "event_row" .}}{{end}}{{end}}

{{define "listing"}}<div class="event_listings wpem-event-{{.Layout}}-layout">{{template "event_rows" .Rows}}</div>{{end}}

{{define "events_block"}}<div class="event_listings_main">
{{- .Filters}}<div class="event_listings wpem-event-{{.Layout}}-layout">{{.Rows}}</div>
{{- .Pagination}}
{{- if .More}}<a class="load_more_events" id="load_more_events" href="#" data-page="{{.Next}}"><strong>Load more events</strong></a>{{end}}
</div>{{end}}

{{define "filters"}}<form class="wpem-main wpem-form-wrapper wpem-event-filter-wrapper event_filters" action="{{.Action}}" method="get">
<div class="search_events search-form-container">
<input type="text" name="search_keywords" id="search_keywords" placeholder="Keywords" value="{{.Keywords}}">
<input type="text" name="search_location" id="search_location" placeholder="Location" value="{{.Location}}">
<select name="search_datetimes[]" id="search_datetimes">
<option value="datetime_any">Any Date</option>
{{- range datetimeOptions}}<option value="{{.Value}}"{{if eq .Value $.Datetime}} selected{{end}}>{{.Label}}</option>{{end}}
</select>
{{- if .Categories}}<select name="search_categories[]" id="search_categories" multiple>
{{- range .Categories}}<option value="{{.Slug}}"{{if has $.Selected .Slug}} selected{{end}}>{{.Name}}</option>{{end}}
</select>{{end}}
{{- if .EventTypes}}<select name="search_event_types[]" id="search_event_types" multiple>
{{- range .EventTypes}}<option value="{{.Slug}}"{{if has $.Selected .Slug}} selected{{end}}>{{.Name}}</option>{{end}}
</select>{{end}}
{{- if .TicketPrices}}<select name="search_ticket_prices[]" id="search_ticket_prices">
<option value="">Any Ticket Price</option><option value="ticket_price_free">Free</option><option value="ticket_price_paid">Paid</option>
</select>{{end}}
<button type="submit" class="wpem-theme-button">Search</button>
</div>
<div class="showing_applied_filters"></div>
</form>{{end}}

{{define "field"}}<fieldset class="wpem-form-group fieldset-{{.Key}}">
<label for="{{.Key}}">{{.Label}}{{if .Required}} <span class="require-field">*</span>{{end}}</label>
<div class="field{{if .Required}} required-field{{end}}">
{{- if eq (print .Type) "textarea" "wp-editor"}}<textarea name="{{.Key}}" id="{{.Key}}" placeholder="{{.Placeholder}}">{{value .}}</textarea>
{{- else if eq (print .Type) "select" "term-select" "radio"}}<select name="{{.Key}}" id="{{.Key}}">
{{- range .Options}}<option value="{{.Value}}"{{if has $.Value .Value}} selected{{end}}>{{.Label}}</option>{{end}}</select>
{{- else if eq (print .Type) "multiselect" "term-multiselect" "term-checklist"}}<select name="{{.Key}}[]" id="{{.Key}}" multiple>
{{- range .Options}}<option value="{{.Value}}"{{if has $.Value .Value}} selected{{end}}>{{.Label}}</option>{{end}}</select>
{{- else if eq (print .Type) "file"}}{{range .Value}}<div class="event-manager-uploaded-file"><input type="hidden" name="current_{{$.Key}}[]" value="{{.}}"><a href="{{.}}">{{.}}</a></div>{{end}}<input type="file" name="{{.Key}}{{if .Multiple}}[]{{end}}" id="{{.Key}}"{{if .Multiple}} multiple{{end}}>
{{- else}}<input type="{{inputType .Type}}" name="{{.Key}}" id="{{.Key}}" placeholder="{{.Placeholder}}" value="{{value .}}">
{{- end}}
{{- if .Description}}<small class="description">{{.Description}}</small>{{end}}
</div></fieldset>
{{end}}

{{define "form"}}<form action="{{.Action}}" method="post" id="submit-{{.Kind}}-form" class="wpem-form-wrapper event-manager-form" enctype="multipart/form-data">
{{- range .Errors}}{{template "alert" (alertOf . true)}}{{end}}
{{- if .Notice}}{{template "alert" (alertOf .Notice false)}}{{end}}
{{- range .Fields}}{{template "field" .}}{{end}}
<input type="hidden" name="{{.Kind}}_manager_form" value="{{.Name}}">
<input type="hidden" name="{{.Kind}}_id" value="{{.EntityID}}">
<input type="hidden" name="step" value="{{.Step}}">
<button type="submit" name="submit_{{.Kind}}" class="wpem-theme-button" value="submit">{{.Submit}}</button>
</form>{{end}}

{{define "done"}}<div class="event-manager-message">{{.Message}}{{if .ViewURL}} <a href="{{.ViewURL}}">View</a>{{end}}</div>{{end}}

{{define "dashboard"}}<div id="{{.Kind}}-manager-{{.Kind}}-dashboard" class="wpem-dashboard-main-content">
{{- range .Banners}}{{template "alert" .}}{{end}}
<form class="wpem-dashboard-search" method="get"><input type="text" name="search_keywords" value="{{.Keywords}}"><button type="submit">Search</button></form>
<table class="wpem-main wpem-responsive-table-wrapper"><thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}<th>Action</th></tr></thead><tbody>
{{- range .Rows}}<tr>
<td><a href="{{.URL}}">{{.Title}}</a>{{if .Cancelled}} <span class="event-cancelled">Cancelled</span>{{end}}</td>
{{- range .Cells}}<td>{{.}}</td>{{end}}
<td class="wpem-dboard-event-action">{{range .Actions}}<a href="{{.URL}}" class="event-dashboard-action-{{.Action}}" title="{{.Label}}">{{.Label}}</a> {{end}}</td>
</tr>{{else}}<tr><td colspan="{{add (len .Columns) 1}}">{{.Empty}}</td></tr>{{end}}
</tbody></table>{{.Pagination}}</div>{{end}}

{{define "entity_list"}}<div class="{{.Kind}}-list">{{range .Items}}<div class="wpem-{{$.Kind}}-box"><a href="{{.URL}}">{{if .Logo}}<img src="{{.Logo}}" alt="{{.Name}}">{{end}}<h4>{{.Name}}</h4></a>{{if .Count}}<span class="count">{{.Count}} events</span>{{end}}</div>{{else}}<p>{{.Empty}}</p>{{end}}</div>{{end}}

{{define "entity_single"}}<div class="wpem-single-{{.Kind}}-profile">
{{- if .Logo}}<div class="wpem-{{.Kind}}-logo"><img src="{{.Logo}}" alt="{{.Name}}"></div>{{end}}
<h3 class="wpem-heading-text">{{.Name}}</h3>
{{- if .Tagline}}<p class="tagline">{{.Tagline}}</p>{{end}}
<div class="wpem-{{.Kind}}-description">{{.Description}}</div>
{{- if .Address}}<div class="wpem-{{.Kind}}-address">{{.Address}}</div>{{end}}
{{- if .Website}}<a class="wpem-{{.Kind}}-website" href="{{.Website}}" target="_blank" rel="noopener">{{.Website}}</a>{{end}}
{{- if .Socials}}<ul class="wpem-social-links">{{range .Socials}}<li><a href="{{.Value}}" class="{{.Label}}" target="_blank" rel="noopener">{{.Label}}</a></li>{{end}}</ul>{{end}}
{{- if .Upcoming}}<h4>Upcoming Events</h4><div class="event_listings">{{template "event_rows" .Upcoming}}</div>{{end}}
{{- if .Past}}<h4>Past Events</h4><div class="event_listings">{{template "event_rows" .Past}}</div>{{end}}
</div>{{end}}

{{define "event_single"}}<div class="wpem-single-event-page{{if .Row.Cancelled}} wpem-event-cancelled{{end}}">
{{- if .Row.Cancelled}}{{template "alert" (alertOf "This event has been cancelled." true)}}{{end}}
{{- if .Expired}}{{template "alert" (alertOf "This listing has expired." true)}}{{end}}
{{- if .Row.Banner}}<div class="wpem-event-single-image"><img src="{{.Row.Banner}}" alt="{{.Row.Title}}"></div>{{end}}
<h3 class="wpem-heading-text">{{.Row.Title}}</h3>
<div class="wpem-single-event-body-content">{{.Description}}</div>
<div class="wpem-single-event-sidebar-info">
{{- if .Row.Date}}<p class="wpem-event-date-time">{{.Row.Date}}{{if .Row.EndDate}} - {{.Row.EndDate}}{{end}}</p>{{end}}
<p class="wpem-event-location">{{.Row.Location}}{{if .Row.MapLink}} <a href="{{.Row.MapLink}}" target="_blank" rel="noopener">Map</a>{{end}}</p>
{{- if .Row.Types}}<p class="wpem-event-type">{{join .Row.Types ", "}}</p>{{end}}
{{- if .Categories}}<p class="wpem-event-category">{{join .Categories ", "}}</p>{{end}}
{{- if .Row.DJs}}<p class="wpem-event-djs">{{join .Row.DJs ", "}}</p>{{end}}
{{- if .Row.Local}}<p class="wpem-event-local">{{.Row.Local}}</p>{{end}}
{{- if .Row.Ticket}}<p class="wpem-event-ticket-type">{{.Row.Ticket}}</p>{{end}}
</div>
{{- if .Register}}{{.Register}}{{end}}
</div>{{end}}

{{define "summary"}}<div class="event_summary_shortcode {{.Align}}">{{range .Rows}}{{template "event_row" .}}{{end}}</div>{{end}}

{{define "register"}}<div class="event_registration registration">
{{- if .Closed}}<p class="listing-expired">Registration closed.</p>
{{- else if .URL}}<a class="wpem-theme-button" href="{{.URL}}" target="_blank" rel="nofollow">Register for event</a>
{{- else if .Email}}<p>To register for this event email your details to <a href="mailto:{{.Email}}">{{.Email}}</a></p>{{end}}
</div>{{end}}
`
