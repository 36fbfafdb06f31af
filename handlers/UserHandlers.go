package handlers

import (
	"backend/models"
	"backend/utils"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// CreateRole godoc
// @Summary      Create role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        body  body      models.Role  true  "Role (role_name)"
// @Success      201   {object}  object
// @Failure      400   {object}  models.ErrorResponse
// @Failure      401   {object}  models.ErrorResponse
// @Router       /api/roles [post]
func CreateRole(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "session-id header is required"})
			return
		}

		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}

		var role models.Role
		if err := c.ShouldBindJSON(&role); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		_, err = db.Exec("INSERT INTO roles (role_name) VALUES ($1)", role.RoleName)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Role created"})

		log := models.ActivityLog{
			EventContext: "Role",
			EventName:    "Create",
			Description:  "Created role " + role.RoleName,
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
		}
		_ = SaveActivityLog(db, log)
	}
}

// GetRoles godoc
// @Summary      List roles
// @Tags         roles
// @Success      200  {array}  models.Role
// @Router       /api/roles [get]
func GetRoles(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := db.Query("SELECT role_id, role_name FROM roles ORDER BY role_id")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer rows.Close()

		var roles []models.Role
		for rows.Next() {
			var role models.Role
			if err := rows.Scan(&role.RoleID, &role.RoleName); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			roles = append(roles, role)
		}
		c.JSON(http.StatusOK, roles)
	}
}

// CreateUser godoc
// @Summary      Create team member
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      object  true  "User payload"
// @Success      201   {object}  object
// @Failure      400   {object}  models.ErrorResponse
// @Failure      401   {object}  models.ErrorResponse
// @Router       /api/users [post]
func CreateUser(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "session-id header is required"})
			return
		}

		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}

		var input struct {
			Email     string `json:"email" binding:"required"`
			Password  string `json:"password" binding:"required"`
			FirstName string `json:"first_name" binding:"required"`
			LastName  string `json:"last_name"`
			PhoneNo   string `json:"phone_no"`
			RoleID    int    `json:"role_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		hashed, err := utils.HashPassword(input.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}

		var userID int
		err = db.QueryRow(`
			INSERT INTO users (email, password, first_name, last_name, phone_no, role_id, suspended, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, false, NOW(), NOW())
			RETURNING id`,
			input.Email, hashed, input.FirstName, input.LastName, input.PhoneNo, input.RoleID).Scan(&userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user", "details": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "User created", "id": userID})

		log := models.ActivityLog{
			EventContext: "User",
			EventName:    "Create",
			Description:  "Created user " + input.Email,
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
		}
		_ = SaveActivityLog(db, log)
	}
}

// GetUsers godoc
// @Summary      List team members
// @Tags         users
// @Success      200  {array}  models.User
// @Router       /api/users [get]
func GetUsers(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := db.Query(`
			SELECT u.id, u.email, u.first_name, u.last_name, u.phone_no, u.role_id,
			       r.role_name, u.suspended, u.created_at, u.updated_at
			FROM users u
			JOIN roles r ON u.role_id = r.role_id
			WHERE u.deleted_at IS NULL
			ORDER BY u.first_name, u.last_name`)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer rows.Close()

		var users []models.User
		for rows.Next() {
			var u models.User
			var phoneNo sql.NullString
			if err := rows.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &phoneNo,
				&u.RoleID, &u.RoleName, &u.Suspended, &u.CreatedAt, &u.UpdatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			u.PhoneNo = getStringOrEmpty(phoneNo)
			users = append(users, u)
		}
		c.JSON(http.StatusOK, users)
	}
}

// GetUser godoc
// @Summary      Get a team member
// @Tags         users
// @Param        id  path  int  true  "User ID"
// @Success      200  {object}  models.User
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/users/{id} [get]
func GetUser(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}

		var u models.User
		var phoneNo sql.NullString
		err = db.QueryRow(`
			SELECT u.id, u.email, u.first_name, u.last_name, u.phone_no, u.role_id,
			       r.role_name, u.suspended, u.created_at, u.updated_at
			FROM users u
			JOIN roles r ON u.role_id = r.role_id
			WHERE u.id = $1 AND u.deleted_at IS NULL`, id).Scan(
			&u.ID, &u.Email, &u.FirstName, &u.LastName, &phoneNo,
			&u.RoleID, &u.RoleName, &u.Suspended, &u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		u.PhoneNo = getStringOrEmpty(phoneNo)
		c.JSON(http.StatusOK, u)
	}
}

// UpdateUser godoc
// @Summary      Update team member
// @Tags         users
// @Accept       json
// @Param        id    path  int     true  "User ID"
// @Param        body  body  object  true  "Fields to update"
// @Success      200  {object}  object
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/users/{id} [put]
func UpdateUser(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}

		var input struct {
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
			PhoneNo   string `json:"phone_no"`
			RoleID    int    `json:"role_id"`
			Suspended *bool  `json:"suspended"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := db.Exec(`
			UPDATE users
			SET first_name = COALESCE(NULLIF($1, ''), first_name),
			    last_name  = COALESCE(NULLIF($2, ''), last_name),
			    phone_no   = COALESCE(NULLIF($3, ''), phone_no),
			    role_id    = CASE WHEN $4 > 0 THEN $4 ELSE role_id END,
			    suspended  = COALESCE($5, suspended),
			    updated_at = NOW()
			WHERE id = $6 AND deleted_at IS NULL`,
			input.FirstName, input.LastName, input.PhoneNo, input.RoleID, input.Suspended, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "User updated"})

		log := models.ActivityLog{
			EventContext: "User",
			EventName:    "Update",
			Description:  "Updated user " + strconv.Itoa(id),
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
		}
		_ = SaveActivityLog(db, log)
	}
}

// ChangePasswordHandler godoc
// @Summary      Change password
// @Tags         users
// @Accept       json
// @Param        body  body  object  true  "old_password, new_password"
// @Success      200  {object}  utils.Response
// @Failure      400  {object}  models.ErrorResponse
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/change-password [post]
func ChangePasswordHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, _, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}

		var input struct {
			OldPassword string `json:"old_password" binding:"required"`
			NewPassword string `json:"new_password" binding:"required,min=8"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var currentHash string
		if err := db.QueryRow("SELECT password FROM users WHERE id = $1", session.UserID).Scan(&currentHash); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if !utils.ValidatePassword(currentHash, input.OldPassword) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Old password is incorrect"})
			return
		}

		newHash, err := utils.HashPassword(input.NewPassword)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}

		if _, err := db.Exec("UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2", newHash, session.UserID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		utils.SuccessResponse(c, "Password changed successfully", http.StatusOK)
	}
}

// DeleteUser godoc
// @Summary      Delete team member (soft delete)
// @Tags         users
// @Param        id  path  int  true  "User ID"
// @Success      200  {object}  object
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/users/{id} [delete]
func DeleteUser(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}

		result, err := db.Exec("UPDATE users SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL", id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		// Kill any sessions the removed user still holds
		_, _ = db.Exec("DELETE FROM session WHERE user_id = $1", id)

		c.JSON(http.StatusOK, gin.H{"message": "User deleted"})

		log := models.ActivityLog{
			EventContext: "User",
			EventName:    "Delete",
			Description:  "Deleted user " + strconv.Itoa(id),
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
		}
		_ = SaveActivityLog(db, log)
	}
}

// RegisterDeviceTokenHandler godoc
// @Summary      Register FCM device token
// @Tags         users
// @Accept       json
// @Param        body  body  object  true  "token, platform"
// @Success      200  {object}  utils.Response
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/device-token [post]
func RegisterDeviceTokenHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, _, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}

		var input struct {
			Token    string `json:"token" binding:"required"`
			Platform string `json:"platform"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		_, err = db.Exec(`
			INSERT INTO device_tokens (user_id, token, platform, created_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (token) DO UPDATE SET user_id = $1, platform = $3`,
			session.UserID, input.Token, input.Platform)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register device token", "details": err.Error()})
			return
		}

		utils.SuccessResponse(c, "Device token registered", http.StatusOK)
	}
}
