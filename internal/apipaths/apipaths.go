// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package apipaths lists the REST paths of the blog backend, relative to the
// configured base URL. Every quill component builds its URLs from here.
package apipaths

import (
	"net/url"
	"strconv"
)

const (
	UserInfo       = "account/userinfo/"
	Login          = "account/login/"
	Logout         = "account/logout/"
	Register       = "account/register/"
	GoogleLogin    = "account/google-login/"
	PasswordReset  = "account/password/reset/"
	ChangePassword = "account/change-password/"
	ChangeUsername = "account/change-username/"

	Articles       = "articles/articles/"
	ArticleManager = "articles/article-manager/"
	CommentManager = "articles/comment-manager/"
	Tags           = "articles/tags/"
	Categories     = "articles/categories/"
)

func VerifyEmail(token string) string { return "account/verifyEmail/" + url.PathEscape(token) + "/" }
func Article(id int) string           { return Articles + strconv.Itoa(id) + "/" }
func Comment(id int) string           { return "articles/comments/" + strconv.Itoa(id) + "/" }

// PasswordResetConfirm is where the token from a reset email is redeemed.
func PasswordResetConfirm(token string) string {
	return PasswordReset + "confirm/" + url.PathEscape(token) + "/"
}

// ArticleSearch returns the article listing path with non-empty filters
// appended as query parameters.
func ArticleSearch(q url.Values) string {
	if enc := q.Encode(); enc != "" {
		return Articles + "?" + enc
	}
	return Articles
}
