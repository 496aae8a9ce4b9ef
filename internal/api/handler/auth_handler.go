package handler

import (
	"encoding/json"
	"net/http"

	"github.com/RoyceAzure/lab/shopcenter/internal/api/apiutil"
	"github.com/RoyceAzure/lab/shopcenter/internal/api/dto"
	"github.com/RoyceAzure/lab/shopcenter/internal/service"
)

type AuthHandler struct {
	userService service.IUserService
}

func NewAuthHandler(userService service.IUserService) *AuthHandler {
	if userService == nil {
		panic("userService cannot be nil")
	}
	return &AuthHandler{userService: userService}
}

func (a *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var registerDTO dto.RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&registerDTO); err != nil {
		apiutil.BadRequestJSON(w, "invalid request body")
		return
	}

	user, err := a.userService.Register(r.Context(), registerDTO.Email, registerDTO.Password, registerDTO.Name)
	if err != nil {
		apiutil.ErrorJSON(w, err)
		return
	}
	apiutil.SuccessJSON(w, http.StatusCreated, dto.ConvertUserToDTO(user))
}

func (a *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var loginDTO dto.LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&loginDTO); err != nil {
		apiutil.BadRequestJSON(w, "invalid request body")
		return
	}

	accessToken, user, err := a.userService.Login(r.Context(), loginDTO.Email, loginDTO.Password)
	if err != nil {
		apiutil.ErrorJSON(w, err)
		return
	}
	apiutil.SuccessJSON(w, http.StatusOK, dto.LoginResponse{
		Token: accessToken,
		User:  dto.ConvertUserToDTO(user),
	})
}
