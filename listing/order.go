package listing

import "event-manager-backend/store"

// Order-by keys accepted by listings.
const (
	OrderDate          = "date"
	OrderTitle         = "title"
	OrderModified      = "modified"
	OrderID            = "ID"
	OrderMenuOrder     = "menu_order"
	OrderRand          = "rand"
	OrderStartDate     = "event_start_date"
	OrderStartDateTime = "event_start_date_time"
	OrderEndDate       = "event_end_date"
	OrderLocation      = "event_location"
	OrderFeatured      = "featured"
	OrderRandFeatured  = "rand_featured"
)

func metaOrder(key, typ string, desc bool) store.Order {
	return store.Order{Field: store.OrderMeta, MetaKey: key, Type: typ, Desc: desc}
}

// orders expands an order-by key into the sort keys the store applies in turn.
// Unknown keys sort by start date.
func orders(by string, desc bool) []store.Order {
	switch by {
	case OrderDate:
		return []store.Order{{Field: store.OrderDate, Desc: desc}}
	case OrderTitle:
		return []store.Order{{Field: store.OrderTitle, Desc: desc}}
	case OrderModified:
		return []store.Order{{Field: store.OrderModified, Desc: desc}}
	case OrderID, "id":
		return []store.Order{{Field: store.OrderID, Desc: desc}}
	case OrderMenuOrder:
		return []store.Order{{Field: store.OrderMenuOrder, Desc: desc}}
	case OrderRand:
		return []store.Order{{Field: store.OrderRand}}
	case OrderStartDateTime:
		return []store.Order{
			metaOrder(metaStartDate, store.TypeDate, desc),
			metaOrder(metaStartTime, store.TypeChar, desc),
		}
	case OrderEndDate:
		return []store.Order{metaOrder(metaEndDate, store.TypeDateTime, desc)}
	case OrderLocation:
		return []store.Order{
			metaOrder(metaOnline, store.TypeChar, true),
			metaOrder(metaLocation, store.TypeChar, desc),
		}
	case OrderFeatured:
		return []store.Order{
			metaOrder(store.MetaFeatured, store.TypeNumeric, true),
			metaOrder(metaStartDate, store.TypeDate, desc),
			metaOrder(metaStartTime, store.TypeChar, desc),
		}
	case OrderRandFeatured:
		return []store.Order{
			{Field: store.OrderMenuOrder},
			{Field: store.OrderRand},
		}
	}
	return []store.Order{metaOrder(metaStartDate, store.TypeDateTime, desc)}
}
