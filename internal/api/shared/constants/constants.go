package constants

import "github.com/feral-file/tg-mention-indexer/internal/store"

const (
	MAX_TOKENS_PER_INDEX_REQUEST = 50
	MAX_PAGE_SIZE                = 100
	DEFAULT_TOKENS_LIMIT         = 20
	DEFAULT_MENTIONS_LIMIT       = 50
	DEFAULT_CHANNELS_LIMIT       = 50
	DEFAULT_HISTORY_LIMIT        = 200
	MAX_HISTORY_LIMIT            = 1000
	HISTORY_DATE_LAYOUT          = "2006-01-02"
	DEFAULT_TOKEN_SORT           = store.TokenSortCommunityReach
)
