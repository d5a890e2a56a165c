package service

import "github.com/user/movieshelf/internal/apperr"

// 领域错误，消息直接返回给调用方
var (
	ErrEmailInUse         = apperr.Conflict("email already in use")
	ErrInvalidCredentials = apperr.Unauthorized("invalid email or password")
	ErrUserNotFound       = apperr.NotFound("user not found")
	ErrIncorrectPassword  = apperr.Validation("incorrect current password")
	ErrMovieNotFound      = apperr.NotFound("movie not found")
	ErrAlreadyInFavorites = apperr.Conflict("already in favorites")
	ErrFavoriteNotFound   = apperr.NotFound("favorite not found")
)
