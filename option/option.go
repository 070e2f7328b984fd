package option

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"event-manager-backend/logger"
	"event-manager-backend/store"

	"github.com/go-redis/redis"
	"github.com/spf13/viper"
)

// Site option names.
const (
	PerPage                 = "event_manager_per_page"
	DateFormat              = "event_manager_datepicker_format"
	TimeFormat              = "event_manager_timepicker_format"
	DateTimeSeparator       = "event_manager_date_time_separator"
	TimezoneSetting         = "event_manager_timezone_setting"
	EnableCategories        = "event_manager_enable_categories"
	EnableEventTypes        = "event_manager_enable_event_types"
	EnableTicketPrices      = "event_manager_enable_event_ticket_prices_filter"
	EnableDJs               = "event_manager_enable_djs"
	EnableLocals            = "event_manager_enable_locals"
	CategoryFilterType      = "event_manager_category_filter_type"
	EventTypeFilterType     = "event_manager_event_type_filter_type"
	DefaultView             = "event_manager_default_view"
	AllowedSubmissionRoles  = "event_manager_allowed_submission_roles"
	KeywordLengthThreshold  = "event_manager_keyword_length_threshold"
	UserRequiresAccount     = "event_manager_user_requires_account"
	HideExpired             = "event_manager_hide_expired"
	DeletePreviewsAfterDays = "event_manager_delete_preview_after_days"
	InstalledTerms          = "event_manager_installed_terms"
	Version                 = "wp_event_manager_version"
	DBVersion               = "wp_event_manager_db_version"
	UserRoles               = "user_roles"
	LegacyFormFields        = "event_manager_form_fields"

	TimezoneSite     = "site_timezone"
	TimezonePerEvent = "each_event"
	FilterAll        = "all"
	FilterAny        = "any"
)

// FormFields is the operator override blob of one kind.
func FormFields(kind string) string {
	return "event_manager_submit_" + kind + "_form_fields"
}

// PageID names the option holding the id of a generated page.
func PageID(page string) string {
	return "event_manager_" + page + "_page_id"
}

const defaultsPrefix = "option."

func init() {
	viper.SetDefault(defaultsPrefix+PerPage, 10)
	viper.SetDefault(defaultsPrefix+DateFormat, "Y-m-d")
	viper.SetDefault(defaultsPrefix+TimeFormat, "H:i")
	viper.SetDefault(defaultsPrefix+DateTimeSeparator, "@")
	viper.SetDefault(defaultsPrefix+TimezoneSetting, TimezoneSite)
	viper.SetDefault(defaultsPrefix+EnableCategories, "1")
	viper.SetDefault(defaultsPrefix+EnableEventTypes, "1")
	viper.SetDefault(defaultsPrefix+EnableTicketPrices, "1")
	viper.SetDefault(defaultsPrefix+EnableDJs, "1")
	viper.SetDefault(defaultsPrefix+EnableLocals, "1")
	viper.SetDefault(defaultsPrefix+CategoryFilterType, FilterAny)
	viper.SetDefault(defaultsPrefix+EventTypeFilterType, FilterAny)
	viper.SetDefault(defaultsPrefix+DefaultView, "grid")
	viper.SetDefault(defaultsPrefix+AllowedSubmissionRoles, "")
	viper.SetDefault(defaultsPrefix+KeywordLengthThreshold, 2)
	viper.SetDefault(defaultsPrefix+UserRequiresAccount, "0")
	viper.SetDefault(defaultsPrefix+HideExpired, "1")
	viper.SetDefault(defaultsPrefix+DeletePreviewsAfterDays, 30)
}

// Cache is the part of the redis client the options read through.
type Cache interface {
	Get(key string) *redis.StringCmd
	Set(key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(keys ...string) *redis.IntCmd
}

// Options resolves site options: cache, then the options table, then the configured default.
type Options struct {
	store store.Options
	cache Cache
	ttl   time.Duration
}

// New builds the resolver. cache may be nil.
func New(s store.Options, cache Cache, ttl time.Duration) *Options {
	return &Options{store: s, cache: cache, ttl: ttl}
}

func cacheKey(name string) string {
	return "option:" + name
}

// Lookup returns the stored value and whether it exists, ignoring defaults.
func (o *Options) Lookup(ctx context.Context, name string) (string, bool) {
	if o.cache != nil {
		cmd := o.cache.Get(cacheKey(name))
		if cmd.Err() == nil {
			return cmd.Val(), true
		}
		if !errors.Is(cmd.Err(), redis.Nil) {
			logger.Warnf(ctx, "lookup: cache read of %s failed: %v", name, cmd.Err())
		}
	}

	v, ok, err := o.store.GetOption(ctx, name)
	if err != nil {
		logger.Errorf(ctx, "lookup: unable to read option %s: %v", name, err)
		return "", false
	}
	if ok && o.cache != nil {
		if err := o.cache.Set(cacheKey(name), v, o.ttl).Err(); err != nil {
			logger.Warnf(ctx, "lookup: cache write of %s failed: %v", name, err)
		}
	}
	return v, ok
}

func (o *Options) Get(ctx context.Context, name string) string {
	if v, ok := o.Lookup(ctx, name); ok {
		return v
	}
	return viper.GetString(defaultsPrefix + name)
}

// Bool treats "", "0", "false" and "no" as false.
func (o *Options) Bool(ctx context.Context, name string) bool {
	switch strings.ToLower(strings.TrimSpace(o.Get(ctx, name))) {
	case "", "0", "false", "no", "off":
		return false
	}
	return true
}

func (o *Options) Int(ctx context.Context, name string) int {
	n, err := strconv.Atoi(strings.TrimSpace(o.Get(ctx, name)))
	if err != nil {
		return viper.GetInt(defaultsPrefix + name)
	}
	return n
}

// List splits a comma separated option into trimmed non-empty items.
func (o *Options) List(ctx context.Context, name string) []string {
	var out []string
	for _, part := range strings.Split(o.Get(ctx, name), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// JSON decodes a stored JSON option into v. It reports false when the option is not stored.
func (o *Options) JSON(ctx context.Context, name string, v interface{}) (bool, error) {
	raw, ok := o.Lookup(ctx, name)
	if !ok || strings.TrimSpace(raw) == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return true, fmt.Errorf("json: decoding option %s: %w", name, err)
	}
	return true, nil
}

// Set writes the option and drops its cache entry.
func (o *Options) Set(ctx context.Context, name, value string) error {
	if err := o.store.SetOption(ctx, name, value); err != nil {
		return fmt.Errorf("set: %w", err)
	}
	o.invalidate(ctx, name)
	return nil
}

func (o *Options) SetJSON(ctx context.Context, name string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("setJSON: encoding option %s: %w", name, err)
	}
	return o.Set(ctx, name, string(b))
}

func (o *Options) Delete(ctx context.Context, name string) error {
	if err := o.store.DeleteOption(ctx, name); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	o.invalidate(ctx, name)
	return nil
}

func (o *Options) invalidate(ctx context.Context, name string) {
	if o.cache == nil {
		return
	}
	if err := o.cache.Del(cacheKey(name)).Err(); err != nil {
		logger.Warnf(ctx, "invalidate: cache delete of %s failed: %v", name, err)
	}
}
