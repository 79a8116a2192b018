package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"

	"github.com/feral-file/tg-mention-indexer/internal/domain"
	"github.com/feral-file/tg-mention-indexer/internal/store/schema"
)

const defaultListLimit = 20

type pgStore struct {
	db *gorm.DB
}

func hasDBResolver(db *gorm.DB) bool {
	return db != nil && db.Callback().Query().Get("gorm:db_resolver") != nil
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// Zero values fall back to the defaults of NormalizeConnectionPoolSettings.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns <= 0 {
		maxOpenConns = 20
	}
	if maxIdleConns <= 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime <= 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime <= 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// primary returns a session pinned to the write source when a read replica is registered.
// Replicas can lag behind primary, so read-after-write lookups go through here.
func (s *pgStore) primary(ctx context.Context) *gorm.DB {
	if hasDBResolver(s.db) {
		return s.db.WithContext(ctx).Clauses(dbresolver.Write)
	}
	return s.db.WithContext(ctx)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	return limit
}

// =============================================================================
// Channel directory
// =============================================================================

func channelRefQuery(db *gorm.DB, ref domain.ChannelRef) *gorm.DB {
	if ref.HasUsername() {
		return db.Where("username = ?", ref.Username)
	}
	return db.Where("telegram_id = ?", ref.TelegramID)
}

// getOrCreateChannel inserts the channel if its identity column is free, otherwise loads the existing row
func getOrCreateChannel(tx *gorm.DB, ref domain.ChannelRef, name *string, chain *domain.Chain) (*schema.Channel, error) {
	channel := schema.Channel{
		IsGroup: ref.IsGroup,
		Name:    name,
		Chain:   chain,
	}

	conflictColumn := "telegram_id"
	if ref.HasUsername() {
		username := ref.Username
		channel.Username = &username
		conflictColumn = "username"
	} else {
		telegramID := ref.TelegramID
		channel.TelegramID = &telegramID
	}

	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: conflictColumn}},
		DoNothing: true,
	}).Clauses(clause.Returning{Columns: []clause.Column{}}).
		Create(&channel).Error; err != nil {
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	// ID == 0 means another writer registered the channel first
	if channel.ID == 0 {
		if err := channelRefQuery(tx, ref).First(&channel).Error; err != nil {
			return nil, fmt.Errorf("failed to get existing channel %s: %w", ref, err)
		}
	}

	return &channel, nil
}

// GetOrCreateChannel returns the channel for ref, registering it with member_count 0 when unseen
func (s *pgStore) GetOrCreateChannel(ctx context.Context, ref domain.ChannelRef, name *string, chain *domain.Chain) (*schema.Channel, error) {
	channel, err := getOrCreateChannel(s.primary(ctx), ref, name, chain)
	if err != nil {
		return nil, err
	}
	return channel, nil
}

// GetChannelByRef retrieves a channel by username or telegram id
func (s *pgStore) GetChannelByRef(ctx context.Context, ref domain.ChannelRef) (*schema.Channel, error) {
	var channel schema.Channel
	err := channelRefQuery(s.db.WithContext(ctx), ref).First(&channel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get channel %s: %w", ref, err)
	}
	return &channel, nil
}

// UpsertChannelSnapshot writes a discovery snapshot and reports whether member_count changed
func (s *pgStore) UpsertChannelSnapshot(ctx context.Context, input UpsertChannelInput) (*schema.Channel, bool, error) {
	if input.MemberCount < 0 {
		return nil, false, fmt.Errorf("member count must not be negative: %d", input.MemberCount)
	}

	var (
		result  schema.Channel
		changed bool
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err := getOrCreateChannel(tx, input.Ref, input.Name, input.Chain)
		if err != nil {
			return err
		}

		// Lock the row so concurrent snapshots observe each other's counts
		var current schema.Channel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", created.ID).
			First(&current).Error; err != nil {
			return fmt.Errorf("failed to lock channel: %w", err)
		}

		changed = current.MemberCount != input.MemberCount

		updates := map[string]interface{}{
			"member_count": input.MemberCount,
			"is_group":     input.Ref.IsGroup,
			"is_active":    true,
			"updated_at":   gorm.Expr("NOW()"),
		}
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if input.Chain != nil {
			updates["chain"] = string(*input.Chain)
		}

		if err := tx.Model(&schema.Channel{}).
			Where("id = ?", current.ID).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update channel snapshot: %w", err)
		}

		if err := tx.Where("id = ?", current.ID).First(&result).Error; err != nil {
			return fmt.Errorf("failed to reload channel: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return &result, changed, nil
}

// ListChannels lists channels ordered by member count
func (s *pgStore) ListChannels(ctx context.Context, activeOnly bool, limit, offset int) ([]schema.Channel, int64, error) {
	query := s.db.WithContext(ctx).Model(&schema.Channel{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count channels: %w", err)
	}

	var channels []schema.Channel
	if err := query.Order("member_count DESC").Order("id ASC").
		Limit(normalizeLimit(limit)).
		Offset(offset).
		Find(&channels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list channels: %w", err)
	}

	return channels, total, nil
}

// =============================================================================
// Tokens
// =============================================================================

// GetTokenByID retrieves a token by its internal ID
func (s *pgStore) GetTokenByID(ctx context.Context, tokenID int64) (*schema.Token, error) {
	var token schema.Token
	err := s.db.WithContext(ctx).Where("id = ?", tokenID).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get token by id: %w", err)
	}
	return &token, nil
}

// GetTokenByContract retrieves a token by its natural key
func (s *pgStore) GetTokenByContract(ctx context.Context, chain domain.Chain, contractAddress string) (*schema.Token, error) {
	var token schema.Token
	err := s.db.WithContext(ctx).
		Where("chain = ? AND contract_address = ?", chain, contractAddress).
		First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get token by contract: %w", err)
	}
	return &token, nil
}

// UpsertTokenByContract gets or creates a token by (chain, contract)
func (s *pgStore) UpsertTokenByContract(ctx context.Context, input CreateTokenInput) (*UpsertTokenResult, error) {
	token := schema.Token{
		Chain:           input.Chain,
		ContractAddress: input.ContractAddress,
		Symbol:          input.Symbol,
		Name:            input.Name,
		MarketCap:       input.MarketCap,
		FirstMarketCap:  input.MarketCap,
	}

	// A concurrent insert of the same natural key turns into a lookup instead of a uniqueness error
	if err := s.primary(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chain"}, {Name: "contract_address"}},
		DoNothing: true,
	}).Clauses(clause.Returning{Columns: []clause.Column{}}).
		Create(&token).Error; err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	if token.ID != 0 {
		return &UpsertTokenResult{Token: &token, Result: domain.UpsertCreated}, nil
	}

	var existing schema.Token
	if err := s.primary(ctx).
		Where("chain = ? AND contract_address = ?", input.Chain, input.ContractAddress).
		First(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to get existing token: %w", err)
	}

	return &UpsertTokenResult{Token: &existing, Result: domain.UpsertExisting}, nil
}

// ApplyMarketRefresh writes market fields, bumps last_update and clears suspect_since
func (s *pgStore) ApplyMarketRefresh(ctx context.Context, tokenID int64, input MarketRefreshInput) (*schema.Token, error) {
	updates := map[string]interface{}{
		"buys_1h":       input.Buys1h,
		"sells_1h":      input.Sells1h,
		"suspect_since": nil,
	}

	if input.RefreshedAt.IsZero() {
		updates["last_update"] = gorm.Expr("NOW()")
	} else {
		updates["last_update"] = input.RefreshedAt
	}

	if input.MarketCap != nil {
		// SET expressions read the pre-update row, so market_cap_1h receives the previous value
		updates["market_cap_1h"] = gorm.Expr("market_cap")
		updates["market_cap"] = *input.MarketCap
		updates["first_market_cap"] = gorm.Expr("COALESCE(first_market_cap, ?)", *input.MarketCap)
	}
	if input.Price != nil {
		updates["price"] = *input.Price
		updates["first_price"] = gorm.Expr("COALESCE(first_price, ?)", *input.Price)
	}
	if input.Liquidity != nil {
		updates["liquidity"] = *input.Liquidity
	}
	if input.Volume1h != nil {
		updates["volume_1h"] = *input.Volume1h
	}
	if input.Volume24h != nil {
		updates["volume_24h"] = *input.Volume24h
	}
	if input.PriceChange24h != nil {
		updates["price_change_24h"] = *input.PriceChange24h
	}
	if input.HoldersCount != nil {
		updates["holders_count"] = *input.HoldersCount
	}
	if input.DexScreenerURL != nil {
		updates["dexscreener_url"] = *input.DexScreenerURL
	}

	// Descriptive fields only fill gaps left by the mention that created the token
	if input.Symbol != nil && *input.Symbol != "" {
		updates["symbol"] = gorm.Expr("CASE WHEN symbol = '' THEN ? ELSE symbol END", *input.Symbol)
	}
	fillIfNull := map[string]*string{
		"name":      input.Name,
		"image_url": input.ImageURL,
		"website":   input.Website,
		"twitter":   input.Twitter,
		"telegram":  input.Telegram,
	}
	for column, value := range fillIfNull {
		if value != nil && *value != "" {
			updates[column] = gorm.Expr(fmt.Sprintf("COALESCE(%s, ?)", column), *value)
		}
	}

	result := s.db.WithContext(ctx).
		Model(&schema.Token{}).
		Where("id = ?", tokenID).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to apply market refresh: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrTokenNotFound
	}

	var token schema.Token
	if err := s.primary(ctx).Where("id = ?", tokenID).First(&token).Error; err != nil {
		return nil, fmt.Errorf("failed to reload token: %w", err)
	}

	return &token, nil
}

// ApplyCounters writes spread_count and community_reach without touching other columns
func (s *pgStore) ApplyCounters(ctx context.Context, tokenID int64, spreadCount, communityReach int64) error {
	if spreadCount < 0 || communityReach < 0 {
		return fmt.Errorf("counters must not be negative: spread=%d reach=%d", spreadCount, communityReach)
	}

	result := s.db.WithContext(ctx).
		Model(&schema.Token{}).
		Where("id = ?", tokenID).
		Updates(map[string]interface{}{
			"spread_count":    spreadCount,
			"community_reach": communityReach,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to apply counters: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrTokenNotFound
	}
	return nil
}

// WithTokenLock runs fn in a transaction that holds SELECT ... FOR UPDATE on the token row
func (s *pgStore) WithTokenLock(ctx context.Context, tokenID int64, fn TxFunc) error {
	return s.primary(ctx).Transaction(func(tx *gorm.DB) error {
		var token schema.Token
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", tokenID).
			First(&token).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrTokenNotFound
			}
			return fmt.Errorf("failed to lock token: %w", err)
		}

		return fn(&pgStore{db: tx})
	})
}

// MarkTokenSuspect sets suspect_since if it is not already set
func (s *pgStore) MarkTokenSuspect(ctx context.Context, tokenID int64, at time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&schema.Token{}).
		Where("id = ?", tokenID).
		Update("suspect_since", gorm.Expr("COALESCE(suspect_since, ?)", at))
	if result.Error != nil {
		return fmt.Errorf("failed to mark token suspect: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrTokenNotFound
	}
	return nil
}

// DeleteToken removes ledger rows, mentions and history, then the token row, in one transaction
func (s *pgStore) DeleteToken(ctx context.Context, tokenID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the token so mentions arriving mid-delete wait and then fail their foreign key
		var token schema.Token
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", tokenID).
			First(&token).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrTokenNotFound
			}
			return fmt.Errorf("failed to lock token: %w", err)
		}

		if err := tx.Where("token_id = ?", tokenID).Delete(&schema.TokenMark{}).Error; err != nil {
			return fmt.Errorf("failed to delete token marks: %w", err)
		}

		if err := tx.Where("token_id = ?", tokenID).Delete(&schema.Mention{}).Error; err != nil {
			return fmt.Errorf("failed to delete mentions: %w", err)
		}

		if err := tx.Where("token_id = ?", tokenID).Delete(&schema.TokenHistory{}).Error; err != nil {
			return fmt.Errorf("failed to delete token history: %w", err)
		}

		if err := tx.Where("id = ?", tokenID).Delete(&schema.Token{}).Error; err != nil {
			return fmt.Errorf("failed to delete token: %w", err)
		}

		return nil
	})
}

// ListTokens lists tokens for the dashboard
func (s *pgStore) ListTokens(ctx context.Context, filter TokenFilter) ([]schema.Token, int64, error) {
	query := s.db.WithContext(ctx).Model(&schema.Token{})
	if len(filter.Chains) > 0 {
		query = query.Where("chain IN ?", filter.Chains)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tokens: %w", err)
	}

	sortBy := filter.SortBy
	if !sortBy.IsValid() {
		sortBy = TokenSortCommunityReach
	}
	direction := "DESC"
	if filter.Asc {
		direction = "ASC"
	}

	var tokens []schema.Token
	if err := query.
		Order(fmt.Sprintf("%s %s NULLS LAST", sortBy, direction)).
		Order("id ASC").
		Limit(normalizeLimit(filter.Limit)).
		Offset(filter.Offset).
		Find(&tokens).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list tokens: %w", err)
	}

	return tokens, total, nil
}

// ListTokensAfterID returns up to limit tokens with id > afterID ordered by id
func (s *pgStore) ListTokensAfterID(ctx context.Context, afterID int64, limit int) ([]schema.Token, error) {
	var tokens []schema.Token
	if err := s.db.WithContext(ctx).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(normalizeLimit(limit)).
		Find(&tokens).Error; err != nil {
		return nil, fmt.Errorf("failed to list tokens after id %d: %w", afterID, err)
	}
	return tokens, nil
}

// =============================================================================
// Mentions and ledger
// =============================================================================

// RecordMention inserts the mention and the (token, channel) ledger row if absent, in one transaction.
// The unique index on tokens_mark is the serialization point between concurrent first mentions.
func (s *pgStore) RecordMention(ctx context.Context, input CreateMentionInput) (*RecordMentionResult, error) {
	var result RecordMentionResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		mention := schema.Mention{
			TokenID:     input.TokenID,
			ChannelID:   input.ChannelID,
			MessageID:   input.MessageID,
			IsFromGroup: input.IsFromGroup,
			MarketCap:   input.MarketCap,
			Text:        input.Text,
			Raw:         input.Raw,
			MentionedAt: input.MentionedAt,
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token_id"}, {Name: "channel_id"}, {Name: "message_id"}},
			DoNothing: true,
		}).Clauses(clause.Returning{Columns: []clause.Column{}}).
			Create(&mention).Error; err != nil {
			return fmt.Errorf("failed to create mention: %w", err)
		}

		result.MentionCreated = mention.ID != 0
		if !result.MentionCreated {
			// Redelivery of an already recorded message
			if err := tx.Where("token_id = ? AND channel_id = ? AND message_id = ?",
				input.TokenID, input.ChannelID, input.MessageID).
				First(&mention).Error; err != nil {
				return fmt.Errorf("failed to get existing mention: %w", err)
			}
		}
		result.Mention = &mention

		mark := schema.TokenMark{
			TokenID:     input.TokenID,
			ChannelID:   input.ChannelID,
			MessageID:   input.MessageID,
			MarketCap:   input.MarketCap,
			MentionTime: input.MentionedAt,
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token_id"}, {Name: "channel_id"}},
			DoNothing: true,
		}).Clauses(clause.Returning{Columns: []clause.Column{}}).
			Create(&mark).Error; err != nil {
			return fmt.Errorf("failed to create token mark: %w", err)
		}

		result.MarkCreated = mark.ID != 0
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// GetReachLedger returns the distinct channels that have mentioned a token with their current member counts.
// Reads go to primary so a recompute right after RecordMention sees the new ledger row.
func (s *pgStore) GetReachLedger(ctx context.Context, tokenID int64) ([]LedgerEntry, error) {
	var entries []LedgerEntry
	if err := s.primary(ctx).
		Table("tokens_mark AS m").
		Select("m.channel_id AS channel_id, COALESCE(c.member_count, 0) AS member_count").
		Joins("LEFT JOIN channels c ON c.id = m.channel_id").
		Where("m.token_id = ?", tokenID).
		Order("m.channel_id ASC").
		Scan(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to get reach ledger: %w", err)
	}
	return entries, nil
}

// GetTokenIDsByChannel returns the ids of tokens a channel has ever mentioned
func (s *pgStore) GetTokenIDsByChannel(ctx context.Context, channelID int64) ([]int64, error) {
	var tokenIDs []int64
	if err := s.primary(ctx).
		Model(&schema.TokenMark{}).
		Where("channel_id = ?", channelID).
		Order("token_id ASC").
		Pluck("token_id", &tokenIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to get tokens by channel: %w", err)
	}
	return tokenIDs, nil
}

// GetMentionsByToken returns a token's mention history, newest first
func (s *pgStore) GetMentionsByToken(ctx context.Context, tokenID int64, limit, offset int) ([]schema.Mention, int64, error) {
	query := s.db.WithContext(ctx).Model(&schema.Mention{}).Where("token_id = ?", tokenID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count mentions: %w", err)
	}

	var mentions []schema.Mention
	if err := query.
		Order("mentioned_at DESC").
		Order("id DESC").
		Limit(normalizeLimit(limit)).
		Offset(offset).
		Find(&mentions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to get mentions: %w", err)
	}

	return mentions, total, nil
}

// =============================================================================
// Token history
// =============================================================================

// CreateTokenHistory batch inserts snapshots with ON CONFLICT DO NOTHING on (token_id, snapshot_at)
func (s *pgStore) CreateTokenHistory(ctx context.Context, snapshots []schema.TokenHistory) (int64, error) {
	if len(snapshots) == 0 {
		return 0, nil
	}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token_id"}, {Name: "snapshot_at"}},
			DoNothing: true,
		}).
		Create(&snapshots)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to create token history: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// GetTokenHistory returns a token's snapshots in [From, To), oldest first
func (s *pgStore) GetTokenHistory(ctx context.Context, filter TokenHistoryFilter) ([]schema.TokenHistory, error) {
	query := s.db.WithContext(ctx).Where("token_id = ?", filter.TokenID)
	if filter.From != nil {
		query = query.Where("snapshot_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("snapshot_at < ?", *filter.To)
	}

	var history []schema.TokenHistory
	if err := query.
		Order("snapshot_at ASC").
		Limit(normalizeLimit(filter.Limit)).
		Find(&history).Error; err != nil {
		return nil, fmt.Errorf("failed to get token history: %w", err)
	}
	return history, nil
}
