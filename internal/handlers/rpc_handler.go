package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"userservice/internal/models"
	"userservice/internal/services"
)

// RPCRequest is the single inbound envelope; Method selects the
// operation and Params carries the DTO fields, all string-typed.
type RPCRequest struct {
	ID      string    `json:"id"`
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  RPCParams `json:"params"`
}

type RPCParams struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	UsernameOrEmail string `json:"username_or_email"`
	Token           string `json:"token"`
	Identity        string `json:"identity"`
}

type RPCHandler struct {
	accounts services.AccountService
}

func NewRPCHandler(accounts services.AccountService) *RPCHandler {
	return &RPCHandler{accounts: accounts}
}

func (h *RPCHandler) Handle(c *gin.Context) {
	var req RPCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[rpc] bad request: bind json failed: err=%v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch req.Method {
	case "app.sign_up":
		data := models.SignUpDTO{
			Username: req.Params.Username,
			Email:    req.Params.Email,
			Password: req.Params.Password,
		}
		h.respond(c, req, nil, h.accounts.SignUp(data), false)

	case "app.sign_up_without_password":
		data := models.SignUpWithoutPasswordDTO{
			Username: req.Params.Username,
			Email:    req.Params.Email,
		}
		h.respond(c, req, nil, h.accounts.SignUpWithoutPassword(data), false)

	case "app.sign_in":
		data := models.SignInDTO{
			UsernameOrEmail: req.Params.UsernameOrEmail,
			Password:        req.Params.Password,
		}
		token, err := h.accounts.SignIn(data)
		h.respond(c, req, gin.H{"token": token}, err, true)

	case "app.authenticate":
		data := models.AuthenticateDTO{Token: req.Params.Token}
		h.respond(c, req, nil, h.accounts.Authenticate(data), false)

	case "app.update_password":
		data := models.UpdatePasswordDTO{
			Token:    req.Params.Token,
			Password: req.Params.Password,
		}
		h.respond(c, req, nil, h.accounts.UpdatePassword(data), false)

	case "app.identity_check":
		data := models.IdentityCheckDTO{Identity: req.Params.Identity}
		identities, err := h.accounts.IdentityCheck(data)
		h.respond(c, req, gin.H{"identities": identities}, err, true)

	case "app.forgot_my_password":
		data := models.ForgotMyPasswordDTO{UsernameOrEmail: req.Params.UsernameOrEmail}
		h.respond(c, req, nil, h.accounts.ForgotMyPassword(data), false)

	default:
		c.JSON(http.StatusNotFound, gin.H{
			"jsonrpc": req.JSONRPC,
			"result":  gin.H{"status": "error", "error": "Method doesn't exist."},
			"id":      req.ID,
		})
	}
}

// respond writes the response envelope. notFoundOnApp marks the two
// methods (sign_in, identity_check) whose application errors map to
// 404 instead of 400.
func (h *RPCHandler) respond(c *gin.Context, req RPCRequest, extra gin.H, err error, notFoundOnApp bool) {
	if err == nil {
		result := gin.H{"status": "success"}
		for k, v := range extra {
			result[k] = v
		}
		c.JSON(http.StatusOK, gin.H{
			"jsonrpc": req.JSONRPC,
			"result":  result,
			"id":      req.ID,
		})
		return
	}

	status := http.StatusBadRequest
	if _, ok := err.(*models.ApplicationError); ok && notFoundOnApp {
		status = http.StatusNotFound
	}
	log.Printf("[rpc] method=%s id=%s error: %v", req.Method, req.ID, err)
	c.JSON(status, gin.H{
		"jsonrpc": req.JSONRPC,
		"result":  gin.H{"status": "error", "errors": err},
		"id":      req.ID,
	})
}
