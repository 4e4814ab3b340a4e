// Package model はドメインモデルを定義する。
package model

import "time"

// Account は登録済みユーザーアカウントを表す。
// パスワードは必須、PINと指紋テンプレートはサインアップ後に
// それぞれ独立して登録される任意の認証ファクタ。
type Account struct {
	ID                  string
	FullName            string
	Email               string
	PasswordHash        string
	FingerprintTemplate string // 未登録の場合は空文字
	PINHash             string // 未登録の場合は空文字
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// HasPIN はPINが登録済みかどうかを返す。
func (a *Account) HasPIN() bool {
	return a.PINHash != ""
}

// HasFingerprint は指紋テンプレートが登録済みかどうかを返す。
func (a *Account) HasFingerprint() bool {
	return a.FingerprintTemplate != ""
}

// Session はログインセッションを表す。
// PINまたは指紋の検証成功時に発行され、発行から一定時間で失効する。
type Session struct {
	ID        string
	Email     string
	ExpiresAt time.Time
	CreatedAt time.Time
}
