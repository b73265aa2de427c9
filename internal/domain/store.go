package domain

import "time"

// Store は店舗プロフィールを表します。プロンプトの文脈情報として読み取り
// 専用で使われ、生成パイプラインが書き換えることはありません。
type Store struct {
	ID          string `json:"id"`
	OwnerUserID string `json:"-"`

	Name  string `json:"name"`
	City  string `json:"city,omitempty"`
	State string `json:"state,omitempty"`

	MainSegment      string `json:"main_segment,omitempty"`
	BrandPositioning string `json:"brand_positioning,omitempty"`
	ToneOfVoice      string `json:"tone_of_voice,omitempty"`

	Phone     string `json:"phone,omitempty"`
	WhatsApp  string `json:"whatsapp,omitempty"`
	Instagram string `json:"instagram,omitempty"`

	PrimaryColor   string `json:"primary_color,omitempty"`
	SecondaryColor string `json:"secondary_color,omitempty"`
	LogoURL        string `json:"logo_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// StoreSnapshot は週間プラン生成時点の店舗情報を戦略 JSON に埋め込むための
// 縮約形です。
type StoreSnapshot struct {
	Name             string `json:"name"`
	City             string `json:"city,omitempty"`
	State            string `json:"state,omitempty"`
	MainSegment      string `json:"main_segment,omitempty"`
	BrandPositioning string `json:"brand_positioning,omitempty"`
	ToneOfVoice      string `json:"tone_of_voice,omitempty"`
}

// Snapshot は店舗の縮約形を返します。
func (s Store) Snapshot() StoreSnapshot {
	return StoreSnapshot{
		Name:             s.Name,
		City:             s.City,
		State:            s.State,
		MainSegment:      s.MainSegment,
		BrandPositioning: s.BrandPositioning,
		ToneOfVoice:      s.ToneOfVoice,
	}
}
