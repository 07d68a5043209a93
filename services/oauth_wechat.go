package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

var ErrOAuthExchangeFailed = errors.New("failed to exchange oauth code")

// OAuthProvider обменивает авторизационный код на проверенный профиль.
type OAuthProvider interface {
	ExchangeCode(ctx context.Context, code string) (*ExternalIdentity, error)
}

type WechatOAuthConfig struct {
	AppID     string
	AppSecret string
}

type wechatOAuthProvider struct {
	appID     string
	appSecret string
	client    *http.Client
}

// NewWechatOAuthProvider создаёт клиента WeChat OAuth (qrconnect-поток).
func NewWechatOAuthProvider(cfg WechatOAuthConfig) (OAuthProvider, error) {
	if cfg.AppID == "" || cfg.AppSecret == "" {
		return nil, errors.New("invalid WeChat OAuth configuration: app id and secret are required")
	}
	return &wechatOAuthProvider{
		appID:     cfg.AppID,
		appSecret: cfg.AppSecret,
		client:    &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type wechatTokenResponse struct {
	AccessToken string `json:"access_token"`
	OpenID      string `json:"openid"`
	ErrCode     int    `json:"errcode"`
	ErrMsg      string `json:"errmsg"`
}

type wechatUserInfoResponse struct {
	OpenID     string `json:"openid"`
	Nickname   string `json:"nickname"`
	HeadImgURL string `json:"headimgurl"`
	ErrCode    int    `json:"errcode"`
	ErrMsg     string `json:"errmsg"`
}

func (p *wechatOAuthProvider) ExchangeCode(ctx context.Context, code string) (*ExternalIdentity, error) {
	tokenURL := fmt.Sprintf(
		"https://api.weixin.qq.com/sns/oauth2/access_token?appid=%s&secret=%s&code=%s&grant_type=authorization_code",
		url.QueryEscape(p.appID), url.QueryEscape(p.appSecret), url.QueryEscape(code),
	)

	var token wechatTokenResponse
	if err := p.getJSON(ctx, tokenURL, &token); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOAuthExchangeFailed, err)
	}
	if token.ErrCode != 0 || token.AccessToken == "" || token.OpenID == "" {
		return nil, fmt.Errorf("%w: wechat error %d: %s", ErrOAuthExchangeFailed, token.ErrCode, token.ErrMsg)
	}

	infoURL := fmt.Sprintf(
		"https://api.weixin.qq.com/sns/userinfo?access_token=%s&openid=%s",
		url.QueryEscape(token.AccessToken), url.QueryEscape(token.OpenID),
	)

	var info wechatUserInfoResponse
	if err := p.getJSON(ctx, infoURL, &info); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOAuthExchangeFailed, err)
	}
	if info.ErrCode != 0 {
		return nil, fmt.Errorf("%w: wechat error %d: %s", ErrOAuthExchangeFailed, info.ErrCode, info.ErrMsg)
	}

	// У WeChat нет email, синтезируем стабильный из openid.
	return &ExternalIdentity{
		OpenID: token.OpenID,
		Name:   info.Nickname,
		Email:  fmt.Sprintf("%s@wechat.com", token.OpenID),
		Avatar: info.HeadImgURL,
	}, nil
}

func (p *wechatOAuthProvider) getJSON(ctx context.Context, rawURL string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}
