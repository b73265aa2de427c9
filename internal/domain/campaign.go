package domain

import (
	"strings"
	"time"
)

// Campaign は生成の起点となるコンテキストエンティティです。ビジネス上の
// 事実（商品・価格・ターゲット・目的）を持ち、生成済みアーティファクトと
// その生成時刻（冪等性マーカー）を抱えます。
type Campaign struct {
	ID      string `json:"id"`
	StoreID string `json:"store_id"`

	ProductName        string   `json:"product_name"`
	Price              *float64 `json:"price,omitempty"`
	Audience           string   `json:"audience"`
	Objective          string   `json:"objective"`
	ProductPositioning string   `json:"product_positioning,omitempty"`

	// Copy / CopyGeneratedAt はキャンペーンコピーのアーティファクトです。
	// GeneratedAt が nil でなければ再利用、nil なら未生成を意味します。
	Copy            *CampaignCopy `json:"copy,omitempty"`
	CopyGeneratedAt *time.Time    `json:"copy_generated_at,omitempty"`

	Reels            *ReelsScript `json:"reels,omitempty"`
	ReelsGeneratedAt *time.Time   `json:"reels_generated_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// HasRequiredFacts は生成に不可欠なビジネス事実が揃っているか判定します。
func (c Campaign) HasRequiredFacts() bool {
	return strings.TrimSpace(c.ProductName) != "" &&
		strings.TrimSpace(c.Audience) != "" &&
		strings.TrimSpace(c.Objective) != ""
}
