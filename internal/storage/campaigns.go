package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"varejo-ai-web/internal/domain"
)

const campaignColumns = `c.id, c.store_id, c.product_name, c.price, c.audience,
	c.objective, c.product_positioning,
	c.ai_caption, c.ai_text, c.ai_cta, c.ai_hashtags, c.ai_generated_at,
	c.reels_hook, c.reels_script, c.reels_shotlist, c.reels_on_screen_text,
	c.reels_audio_suggestion, c.reels_duration_seconds,
	c.reels_caption, c.reels_cta, c.reels_hashtags, c.reels_generated_at,
	c.created_at`

// CreateCampaign はキャンペーンを 1 行挿入します。tx が nil の場合は
// 通常のコネクションで実行します（週間プラン確定時はトランザクション内）。
func (s *Store) CreateCampaign(ctx context.Context, campaign domain.Campaign) (domain.Campaign, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Campaign{}, err
	}
	return s.insertCampaign(ctx, s.sqlDB, campaign)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) insertCampaign(ctx context.Context, db execer, campaign domain.Campaign) (domain.Campaign, error) {
	campaign.ProductName = strings.TrimSpace(campaign.ProductName)
	if campaign.ProductName == "" {
		return domain.Campaign{}, fmt.Errorf("product name is required")
	}
	if campaign.StoreID == "" {
		return domain.Campaign{}, fmt.Errorf("store id is required")
	}
	if campaign.ID == "" {
		campaign.ID = uuid.NewString()
	}
	if campaign.CreatedAt.IsZero() {
		campaign.CreatedAt = time.Now()
	}

	const q = `INSERT INTO campaigns (
		id, store_id, product_name, price, audience, objective,
		product_positioning, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, q,
		campaign.ID, campaign.StoreID, campaign.ProductName, campaign.Price,
		campaign.Audience, campaign.Objective, campaign.ProductPositioning,
		toMillis(campaign.CreatedAt),
	)
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("insert campaign: %w", err)
	}
	return campaign, nil
}

// GetCampaign は所有者スコープ付きのポイントリードです。店舗の所有者で
// 絞り込むため、他人のキャンペーンは ErrNotFound になります。
func (s *Store) GetCampaign(ctx context.Context, ownerUserID, campaignID string) (domain.Campaign, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Campaign{}, err
	}

	q := `SELECT ` + campaignColumns + `
	FROM campaigns c
	JOIN stores s ON s.id = c.store_id
	WHERE c.id = ? AND s.owner_user_id = ?`

	row := s.sqlDB.QueryRowContext(ctx, q, campaignID, ownerUserID)
	campaign, err := scanCampaign(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Campaign{}, ErrNotFound
	}
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("select campaign: %w", err)
	}
	return campaign, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCampaign(row rowScanner) (domain.Campaign, error) {
	var campaign domain.Campaign
	var price sql.NullFloat64
	var audience, objective, positioning sql.NullString

	var aiCaption, aiText, aiCTA, aiHashtags sql.NullString
	var aiGeneratedAt sql.NullInt64

	var reelsHook, reelsScript, reelsShotlist, reelsOnScreen sql.NullString
	var reelsAudio, reelsCaption, reelsCTA, reelsHashtags sql.NullString
	var reelsDuration, reelsGeneratedAt sql.NullInt64

	var createdAt int64

	err := row.Scan(
		&campaign.ID, &campaign.StoreID, &campaign.ProductName, &price,
		&audience, &objective, &positioning,
		&aiCaption, &aiText, &aiCTA, &aiHashtags, &aiGeneratedAt,
		&reelsHook, &reelsScript, &reelsShotlist, &reelsOnScreen,
		&reelsAudio, &reelsDuration,
		&reelsCaption, &reelsCTA, &reelsHashtags, &reelsGeneratedAt,
		&createdAt,
	)
	if err != nil {
		return domain.Campaign{}, err
	}

	if price.Valid {
		campaign.Price = &price.Float64
	}
	campaign.Audience = audience.String
	campaign.Objective = objective.String
	campaign.ProductPositioning = positioning.String
	campaign.CreatedAt = fromMillis(createdAt)

	// アーティファクトは全部揃っているか全く無いかのどちらかです。
	// 冪等性マーカー（generated_at）の有無で判定します。
	if aiGeneratedAt.Valid {
		t := fromMillis(aiGeneratedAt.Int64)
		campaign.CopyGeneratedAt = &t
		campaign.Copy = &domain.CampaignCopy{
			Caption:  aiCaption.String,
			Text:     aiText.String,
			CTA:      aiCTA.String,
			Hashtags: aiHashtags.String,
		}
	}
	if reelsGeneratedAt.Valid {
		t := fromMillis(reelsGeneratedAt.Int64)
		campaign.ReelsGeneratedAt = &t
		reels := &domain.ReelsScript{
			Hook:            reelsHook.String,
			DurationSeconds: int(reelsDuration.Int64),
			AudioSuggestion: reelsAudio.String,
			Script:          reelsScript.String,
			Caption:         reelsCaption.String,
			CTA:             reelsCTA.String,
			Hashtags:        reelsHashtags.String,
		}
		if reelsShotlist.Valid && reelsShotlist.String != "" {
			if err := json.Unmarshal([]byte(reelsShotlist.String), &reels.Shotlist); err != nil {
				return domain.Campaign{}, fmt.Errorf("decode shotlist: %w", err)
			}
		}
		if reelsOnScreen.Valid && reelsOnScreen.String != "" {
			if err := json.Unmarshal([]byte(reelsOnScreen.String), &reels.OnScreenText); err != nil {
				return domain.Campaign{}, fmt.Errorf("decode on_screen_text: %w", err)
			}
		}
		campaign.Reels = reels
	}

	return campaign, nil
}

// UpdateCampaignCopy はコピーのアーティファクトを一括で書き込みます。
// force が false の場合は generated_at が未設定の行にしか書かれません
// （compare-and-swap）。影響行数を返し、0 は競合または対象不在を意味します。
func (s *Store) UpdateCampaignCopy(ctx context.Context, ownerUserID, campaignID string, artifact domain.CampaignCopy, force bool, generatedAt time.Time) (int64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}

	const q = `UPDATE campaigns SET
		ai_caption = ?, ai_text = ?, ai_cta = ?, ai_hashtags = ?, ai_generated_at = ?
	WHERE id = ?
	  AND (ai_generated_at IS NULL OR ?)
	  AND store_id IN (SELECT id FROM stores WHERE owner_user_id = ?)`

	res, err := s.sqlDB.ExecContext(ctx, q,
		artifact.Caption, artifact.Text, artifact.CTA, artifact.Hashtags,
		toMillis(generatedAt),
		campaignID, force, ownerUserID,
	)
	if err != nil {
		return 0, fmt.Errorf("update campaign copy: %w", err)
	}
	return res.RowsAffected()
}

// UpdateCampaignReels は Reels 台本のアーティファクトを一括で書き込みます。
// セマンティクスは UpdateCampaignCopy と同じです。
func (s *Store) UpdateCampaignReels(ctx context.Context, ownerUserID, campaignID string, artifact domain.ReelsScript, force bool, generatedAt time.Time) (int64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}

	shotlist, err := json.Marshal(artifact.Shotlist)
	if err != nil {
		return 0, fmt.Errorf("encode shotlist: %w", err)
	}
	onScreen, err := json.Marshal(artifact.OnScreenText)
	if err != nil {
		return 0, fmt.Errorf("encode on_screen_text: %w", err)
	}

	const q = `UPDATE campaigns SET
		reels_hook = ?, reels_script = ?, reels_shotlist = ?,
		reels_on_screen_text = ?, reels_audio_suggestion = ?,
		reels_duration_seconds = ?, reels_caption = ?, reels_cta = ?,
		reels_hashtags = ?, reels_generated_at = ?
	WHERE id = ?
	  AND (reels_generated_at IS NULL OR ?)
	  AND store_id IN (SELECT id FROM stores WHERE owner_user_id = ?)`

	res, err := s.sqlDB.ExecContext(ctx, q,
		artifact.Hook, artifact.Script, string(shotlist),
		string(onScreen), artifact.AudioSuggestion,
		artifact.DurationSeconds, artifact.Caption, artifact.CTA,
		artifact.Hashtags, toMillis(generatedAt),
		campaignID, force, ownerUserID,
	)
	if err != nil {
		return 0, fmt.Errorf("update campaign reels: %w", err)
	}
	return res.RowsAffected()
}
