package handlers

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/kova98/redditsentiment.api/models"
)

const stateCookie = "oauth_state"

type AccountService interface {
	LoginURL() (string, string)
	Connect(ctx context.Context, code string) (models.Account, error)
	List(ctx context.Context) ([]models.Account, error)
	Delete(ctx context.Context, id int) error
	UpdateStatus(ctx context.Context, id int, status string) (models.StatusResponse, error)
	RefreshStats(ctx context.Context, id int) (models.RefreshStatsResponse, error)
}

type AccountHandler struct {
	logger       *slog.Logger
	accounts     AccountService
	secureCookie bool
}

func NewAccountHandler(logger *slog.Logger, accounts AccountService, secureCookie bool) *AccountHandler {
	return &AccountHandler{logger, accounts, secureCookie}
}

var callbackPage = template.Must(template.New("callback").Parse(`<html>
  <head>
    <title>{{.Title}}</title>
    {{if .Success}}<script>setTimeout(function() { window.close(); }, 2000);</script>{{end}}
  </head>
  <body style="font-family:sans-serif;text-align:center;padding-top:50px;">
    <h2>{{.Title}}</h2>
    <p>{{.Message}}</p>
  </body>
</html>
`))

type callbackView struct {
	Success bool
	Title   string
	Message string
}

// Login redirects to Reddit's consent page. The state is kept in a short-lived
// cookie and checked on callback.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) Result {
	url, state := h.accounts.LoginURL()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/auth",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, url, http.StatusFound)

	return Written(http.StatusFound)
}

func (h *AccountHandler) Callback(w http.ResponseWriter, r *http.Request) Result {
	query := r.URL.Query()

	if reason := query.Get("error"); reason != "" {
		return h.callbackPage(w, http.StatusBadRequest, callbackView{
			Title:   "Reddit account not connected",
			Message: "Reddit returned: " + reason,
		})
	}

	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != query.Get("state") {
		return h.callbackPage(w, http.StatusBadRequest, callbackView{
			Title:   "Reddit account not connected",
			Message: "The login session expired or is invalid. Please try again.",
		})
	}

	code := query.Get("code")
	if code == "" {
		return h.callbackPage(w, http.StatusBadRequest, callbackView{
			Title:   "Reddit account not connected",
			Message: "Missing authorization code.",
		})
	}

	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/auth", MaxAge: -1})

	account, err := h.accounts.Connect(r.Context(), code)
	if err != nil {
		h.logger.Error("connect reddit account", "error", err)
		return h.callbackPage(w, http.StatusBadGateway, callbackView{
			Title:   "Reddit account not connected",
			Message: "Could not complete the connection with Reddit. Please try again.",
		})
	}

	return h.callbackPage(w, http.StatusOK, callbackView{
		Success: true,
		Title:   "Reddit account connected successfully!",
		Message: "u/" + account.Username + " is connected. You can close this window.",
	})
}

func (h *AccountHandler) callbackPage(w http.ResponseWriter, code int, view callbackView) Result {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := callbackPage.Execute(w, view); err != nil {
		h.logger.Error("render callback page", "error", err)
	}
	return Written(code)
}

func (h *AccountHandler) GetAccounts(w http.ResponseWriter, r *http.Request) Result {
	accounts, err := h.accounts.List(r.Context())
	if err != nil {
		return InternalError(err, "get accounts: ")
	}

	return Ok(accounts)
}

func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) Result {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return BadRequest("Invalid account ID.")
	}

	if err := h.accounts.Delete(r.Context(), id); err != nil {
		return InternalError(err, "delete account: ")
	}

	return Success()
}

func (h *AccountHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) Result {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return BadRequest("Invalid account ID.")
	}

	var req models.StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return BadRequest("Invalid request.")
	}

	res, err := h.accounts.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		return InternalError(err, "update account status: ")
	}

	return Ok(res)
}

func (h *AccountHandler) RefreshStats(w http.ResponseWriter, r *http.Request) Result {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return BadRequest("Invalid account ID.")
	}

	res, err := h.accounts.RefreshStats(r.Context(), id)
	if err != nil {
		return InternalError(err, "refresh account stats: ")
	}

	return Ok(res)
}
