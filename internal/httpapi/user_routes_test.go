package httpapi

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landivo/internal/model"
)

func TestUserRoutes(t *testing.T) {
	s := setupServer(t)
	owner := &model.User{Email: "owner@example.com"}
	target := &model.User{Email: "target@example.com"}
	require.NoError(t, s.db.Create(owner).Error)
	require.NoError(t, s.db.Create(target).Error)
	require.NoError(t, s.db.Create(&model.Property{Title: "Lot 1", OwnerID: &owner.ID}).Error)

	w := s.do(t, http.MethodGet, "/user/all?isActive=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users []model.User
	decode(t, w, &users)
	assert.Len(t, users, 2)

	w = s.do(t, http.MethodGet, "/user/all?isActive=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/user/"+owner.ID+"/properties-count", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":1}`, w.Body.String())

	w = s.do(t, http.MethodPut, "/user/"+owner.ID+"/status", gin.H{"isActive": false})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPut, "/user/"+owner.ID+"/status", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/user/"+owner.ID+"/reassign-properties", gin.H{"targetUserId": target.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"message":"Properties reassigned successfully","count":1}`, w.Body.String())

	w = s.do(t, http.MethodPut, "/user/"+owner.ID+"/status", gin.H{"isActive": false})
	require.Equal(t, http.StatusOK, w.Code)
	var u model.User
	decode(t, w, &u)
	assert.False(t, u.IsActive)

	w = s.do(t, http.MethodGet, "/user/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
