// End-to-end check of a running LockerRoom status server and admin API.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

var (
	baseURL = getenv("API_URL", "http://localhost:3000")
	secret  = os.Getenv("ADMIN_JWT_SECRET")
	guildID = getenv("TEST_GUILD_ID", "000000000000000001")
)

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func main() {
	checkStatus()
	checkHealth()

	if secret == "" {
		fmt.Println("✓ public endpoints passed (ADMIN_JWT_SECRET unset, admin API skipped)")
		return
	}
	token := mint()

	doReq(http.MethodGet, "/v1/admin/stats", "", nil, nil, http.StatusUnauthorized)
	var stats map[string]int64
	doReq(http.MethodGet, "/v1/admin/stats", token, nil, &stats, http.StatusOK)
	log.Info().Interface("stats", stats).Msg("stats")

	grantPremium(token)
	revokePremium(token)

	fmt.Println("✓ all endpoints passed")
}

// ----------------------------- public

func checkStatus() {
	var resp struct {
		Status string `json:"status"`
		Bot    string `json:"bot"`
		Guilds int    `json:"guilds"`
	}
	doReq(http.MethodGet, "/status", "", nil, &resp, http.StatusOK)
	if resp.Status != "online" {
		log.Fatal().Str("status", resp.Status).Msg("status: unexpected value")
	}
	log.Info().Str("bot", resp.Bot).Int("guilds", resp.Guilds).Msg("status")
}

func checkHealth() {
	doReq(http.MethodGet, "/healthz", "", nil, nil, http.StatusOK)
}

// ----------------------------- admin

func mint() string {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "test_api",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
	}).SignedString([]byte(secret))
	if err != nil {
		log.Fatal().Err(err).Msg("sign token")
	}
	return tok
}

func grantPremium(tok string) {
	var resp struct {
		Success bool `json:"success"`
		Status  struct {
			IsPremium bool `json:"is_premium"`
		} `json:"status"`
	}
	doReq(http.MethodPost, "/v1/admin/premium", tok, map[string]any{
		"guild_id": guildID,
		"days":     1,
	}, &resp, http.StatusOK)
	if !resp.Status.IsPremium {
		log.Fatal().Msg("premium: grant did not take effect")
	}
}

func revokePremium(tok string) {
	var resp struct {
		Changed bool `json:"changed"`
	}
	doReq(http.MethodDelete, "/v1/admin/premium/"+guildID, tok, nil, &resp, http.StatusOK)
	if !resp.Changed {
		log.Fatal().Msg("premium: revoke reported no change")
	}
}

// ----------------------------- helpers

func doReq(method, path, token string, body, out any, want int) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			log.Fatal().Err(err).Msgf("%s %s encode", method, path)
		}
	}
	req, _ := http.NewRequest(method, baseURL+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatal().Err(err).Msgf("%s %s", method, path)
	}
	defer res.Body.Close()
	if res.StatusCode != want {
		log.Fatal().Msgf("%s %s: want %d got %d", method, path, want, res.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			log.Fatal().Err(err).Msgf("%s %s decode", method, path)
		}
	}
}
