package handlers

import (
	"backend/models"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// roomQuotationID resolves the owning quotation of a room.
func roomQuotationID(db *sql.DB, roomID int) (int, error) {
	var quotationID int
	err := db.QueryRow("SELECT quotation_id FROM rooms WHERE id = $1", roomID).Scan(&quotationID)
	return quotationID, err
}

// guardEditableRoom checks the room exists and its quotation is still
// editable. Replies on c and returns false when the caller should stop.
func guardEditableRoom(c *gin.Context, db *sql.DB, roomID int) (int, bool) {
	quotationID, err := roomQuotationID(db, roomID)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return 0, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return 0, false
	}

	editable, status, err := quotationIsEditable(db, quotationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return 0, false
	}
	if !editable {
		c.JSON(http.StatusConflict, gin.H{"error": "Quotation is " + status + " and cannot be edited"})
		return 0, false
	}
	return quotationID, true
}

// AddRoom godoc
// @Summary      Add a room to a quotation
// @Tags         rooms
// @Accept       json
// @Param        id    path  int          true  "Quotation ID"
// @Param        body  body  models.Room  true  "Room (name)"
// @Success      201  {object}  models.Room
// @Failure      400  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Router       /api/quotations/{id}/rooms [post]
func AddRoom(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}

		quotationID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quotation ID"})
			return
		}

		editable, status, err := quotationIsEditable(db, quotationID)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "Quotation not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !editable {
			c.JSON(http.StatusConflict, gin.H{"error": "Quotation is " + status + " and cannot be edited"})
			return
		}

		var room models.Room
		if err := c.ShouldBindJSON(&room); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		room.QuotationID = quotationID

		// New rooms go to the end of the list
		err = db.QueryRow(`
			INSERT INTO rooms (quotation_id, name, position)
			VALUES ($1, $2, (SELECT COALESCE(MAX(position), 0) + 1 FROM rooms WHERE quotation_id = $1))
			RETURNING id, position`,
			quotationID, room.Name).Scan(&room.ID, &room.Position)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add room", "details": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, room)

		log := models.ActivityLog{
			EventContext: "Room",
			EventName:    "Create",
			Description:  "Added room " + room.Name + " to quotation " + strconv.Itoa(quotationID),
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
		}
		_ = SaveActivityLog(db, log)
	}
}

// UpdateRoom godoc
// @Summary      Rename or reorder a room
// @Tags         rooms
// @Accept       json
// @Param        id    path  int     true  "Room ID"
// @Param        body  body  object  true  "name, position"
// @Success      200  {object}  object
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/rooms/{id} [put]
func UpdateRoom(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
			return
		}

		if _, ok := guardEditableRoom(c, db, roomID); !ok {
			return
		}

		var input struct {
			Name     string `json:"name"`
			Position *int   `json:"position"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		_, err = db.Exec(`
			UPDATE rooms
			SET name = COALESCE(NULLIF($1, ''), name),
			    position = COALESCE($2, position)
			WHERE id = $3`,
			input.Name, input.Position, roomID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Room updated"})
	}
}

// DeleteRoom godoc
// @Summary      Delete a room and its line items
// @Tags         rooms
// @Param        id  path  int  true  "Room ID"
// @Success      200  {object}  object
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/rooms/{id} [delete]
func DeleteRoom(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
			return
		}

		quotationID, ok := guardEditableRoom(c, db, roomID)
		if !ok {
			return
		}

		tx, err := db.Begin()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer tx.Rollback()

		for _, q := range []string{
			`DELETE FROM room_products WHERE room_id = $1`,
			`DELETE FROM room_accessories WHERE room_id = $1`,
			`DELETE FROM installation_charges WHERE room_id = $1`,
			`DELETE FROM rooms WHERE id = $1`,
		} {
			if _, err := tx.Exec(q, roomID); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}
		if err := tx.Commit(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		totals, err := recomputeQuotationTotals(c, db, quotationID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recompute totals", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Room deleted", "totals": totals})
	}
}

// AddRoomProduct godoc
// @Summary      Add a product line to a room
// @Tags         rooms
// @Accept       json
// @Param        id    path  int                 true  "Room ID"
// @Param        body  body  models.RoomProduct  true  "Product"
// @Success      201  {object}  object
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/rooms/{id}/products [post]
func AddRoomProduct(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
			return
		}

		quotationID, ok := guardEditableRoom(c, db, roomID)
		if !ok {
			return
		}

		var p models.RoomProduct
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if p.DiscountPercent < 0 || p.DiscountPercent > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "discount_percent must be between 0 and 100"})
			return
		}
		if p.Quantity == 0 {
			p.Quantity = 1
		}
		p.RoomID = roomID

		err = db.QueryRow(`
			INSERT INTO room_products (room_id, name, description, selling_price, discount_percent, quantity, position)
			VALUES ($1, $2, $3, $4, $5, $6, (SELECT COALESCE(MAX(position), 0) + 1 FROM room_products WHERE room_id = $1))
			RETURNING id, position`,
			roomID, p.Name, p.Description, p.SellingPrice, p.DiscountPercent, p.Quantity).Scan(&p.ID, &p.Position)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add product", "details": err.Error()})
			return
		}

		totals, err := recomputeQuotationTotals(c, db, quotationID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recompute totals", "details": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"product": p, "totals": totals})
	}
}

// UpdateRoomProduct godoc
// @Summary      Update a product line
// @Tags         rooms
// @Accept       json
// @Param        id    path  int                 true  "Product ID"
// @Param        body  body  models.RoomProduct  true  "Product"
// @Success      200  {object}  object
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/room-products/{id} [put]
func UpdateRoomProduct(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var roomID int
		if err := db.QueryRow("SELECT room_id FROM room_products WHERE id = $1", id).Scan(&roomID); err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		quotationID, ok := guardEditableRoom(c, db, roomID)
		if !ok {
			return
		}

		var p models.RoomProduct
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if p.DiscountPercent < 0 || p.DiscountPercent > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "discount_percent must be between 0 and 100"})
			return
		}
		if p.Quantity == 0 {
			p.Quantity = 1
		}

		_, err = db.Exec(`
			UPDATE room_products
			SET name = $1, description = $2, selling_price = $3, discount_percent = $4, quantity = $5
			WHERE id = $6`,
			p.Name, p.Description, p.SellingPrice, p.DiscountPercent, p.Quantity, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		totals, err := recomputeQuotationTotals(c, db, quotationID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recompute totals", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product updated", "totals": totals})
	}
}

// DeleteRoomProduct godoc
// @Summary      Delete a product line
// @Tags         rooms
// @Param        id  path  int  true  "Product ID"
// @Success      200  {object}  object
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/room-products/{id} [delete]
func DeleteRoomProduct(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var roomID int
		if err := db.QueryRow("SELECT room_id FROM room_products WHERE id = $1", id).Scan(&roomID); err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		quotationID, ok := guardEditableRoom(c, db, roomID)
		if !ok {
			return
		}

		if _, err := db.Exec("DELETE FROM room_products WHERE id = $1", id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		totals, err := recomputeQuotationTotals(c, db, quotationID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recompute totals", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product deleted", "totals": totals})
	}
}

// AddRoomAccessory godoc
// @Summary      Add an accessory line to a room
// @Tags         rooms
// @Accept       json
// @Param        id    path  int                   true  "Room ID"
// @Param        body  body  models.RoomAccessory  true  "Accessory"
// @Success      201  {object}  object
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/rooms/{id}/accessories [post]
func AddRoomAccessory(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
			return
		}

		quotationID, ok := guardEditableRoom(c, db, roomID)
		if !ok {
			return
		}

		var a models.RoomAccessory
		if err := c.ShouldBindJSON(&a); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if a.DiscountPercent < 0 || a.DiscountPercent > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "discount_percent must be between 0 and 100"})
			return
		}
		if a.Quantity == 0 {
			a.Quantity = 1
		}
		a.RoomID = roomID

		err = db.QueryRow(`
			INSERT INTO room_accessories (room_id, name, category, selling_price, discount_percent, quantity)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			roomID, a.Name, a.Category, a.SellingPrice, a.DiscountPercent, a.Quantity).Scan(&a.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add accessory", "details": err.Error()})
			return
		}

		totals, err := recomputeQuotationTotals(c, db, quotationID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recompute totals", "details": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"accessory": a, "totals": totals})
	}
}

// UpdateRoomAccessory godoc
// @Summary      Update an accessory line
// @Tags         rooms
// @Accept       json
// @Param        id    path  int                   true  "Accessory ID"
// @Param        body  body  models.RoomAccessory  true  "Accessory"
// @Success      200  {object}  object
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/room-accessories/{id} [put]
func UpdateRoomAccessory(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid accessory ID"})
			return
		}

		var roomID int
		if err := db.QueryRow("SELECT room_id FROM room_accessories WHERE id = $1", id).Scan(&roomID); err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "Accessory not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		quotationID, ok := guardEditableRoom(c, db, roomID)
		if !ok {
			return
		}

		var a models.RoomAccessory
		if err := c.ShouldBindJSON(&a); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if a.DiscountPercent < 0 || a.DiscountPercent > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "discount_percent must be between 0 and 100"})
			return
		}
		if a.Quantity == 0 {
			a.Quantity = 1
		}

		_, err = db.Exec(`
			UPDATE room_accessories
			SET name = $1, category = $2, selling_price = $3, discount_percent = $4, quantity = $5
			WHERE id = $6`,
			a.Name, a.Category, a.SellingPrice, a.DiscountPercent, a.Quantity, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		totals, err := recomputeQuotationTotals(c, db, quotationID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recompute totals", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Accessory updated", "totals": totals})
	}
}

// DeleteRoomAccessory godoc
// @Summary      Delete an accessory line
// @Tags         rooms
// @Param        id  path  int  true  "Accessory ID"
// @Success      200  {object}  object
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/room-accessories/{id} [delete]
func DeleteRoomAccessory(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid accessory ID"})
			return
		}

		var roomID int
		if err := db.QueryRow("SELECT room_id FROM room_accessories WHERE id = $1", id).Scan(&roomID); err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "Accessory not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		quotationID, ok := guardEditableRoom(c, db, roomID)
		if !ok {
			return
		}

		if _, err := db.Exec("DELETE FROM room_accessories WHERE id = $1", id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		totals, err := recomputeQuotationTotals(c, db, quotationID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recompute totals", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Accessory deleted", "totals": totals})
	}
}

// AddInstallationCharge godoc
// @Summary      Add an installation charge to a room
// @Tags         rooms
// @Accept       json
// @Param        id    path  int                        true  "Room ID"
// @Param        body  body  models.InstallationCharge  true  "Installation charge"
// @Success      201  {object}  object
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/rooms/{id}/installation-charges [post]
func AddInstallationCharge(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
			return
		}

		quotationID, ok := guardEditableRoom(c, db, roomID)
		if !ok {
			return
		}

		var ic models.InstallationCharge
		if err := c.ShouldBindJSON(&ic); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if ic.Amount == 0 && ic.AreaSqft == 0 && (ic.WidthMM == 0 || ic.HeightMM == 0) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Provide amount, area_sqft, or width_mm and height_mm"})
			return
		}
		ic.RoomID = roomID

		err = db.QueryRow(`
			INSERT INTO installation_charges (room_id, cabinet_type, width_mm, height_mm, area_sqft, price_per_sqft, amount)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			roomID, ic.CabinetType, ic.WidthMM, ic.HeightMM, ic.AreaSqft, ic.PricePerSqft, ic.Amount).Scan(&ic.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add installation charge", "details": err.Error()})
			return
		}

		totals, err := recomputeQuotationTotals(c, db, quotationID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recompute totals", "details": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"installation_charge": ic, "totals": totals})
	}
}

// UpdateInstallationCharge godoc
// @Summary      Update an installation charge
// @Tags         rooms
// @Accept       json
// @Param        id    path  int                        true  "Installation charge ID"
// @Param        body  body  models.InstallationCharge  true  "Installation charge"
// @Success      200  {object}  object
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/installation-charges/{id} [put]
func UpdateInstallationCharge(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid installation charge ID"})
			return
		}

		var roomID int
		if err := db.QueryRow("SELECT room_id FROM installation_charges WHERE id = $1", id).Scan(&roomID); err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "Installation charge not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		quotationID, ok := guardEditableRoom(c, db, roomID)
		if !ok {
			return
		}

		var ic models.InstallationCharge
		if err := c.ShouldBindJSON(&ic); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		_, err = db.Exec(`
			UPDATE installation_charges
			SET cabinet_type = $1, width_mm = $2, height_mm = $3, area_sqft = $4, price_per_sqft = $5, amount = $6
			WHERE id = $7`,
			ic.CabinetType, ic.WidthMM, ic.HeightMM, ic.AreaSqft, ic.PricePerSqft, ic.Amount, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		totals, err := recomputeQuotationTotals(c, db, quotationID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recompute totals", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Installation charge updated", "totals": totals})
	}
}

// DeleteInstallationCharge godoc
// @Summary      Delete an installation charge
// @Tags         rooms
// @Param        id  path  int  true  "Installation charge ID"
// @Success      200  {object}  object
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/installation-charges/{id} [delete]
func DeleteInstallationCharge(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid installation charge ID"})
			return
		}

		var roomID int
		if err := db.QueryRow("SELECT room_id FROM installation_charges WHERE id = $1", id).Scan(&roomID); err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "Installation charge not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		quotationID, ok := guardEditableRoom(c, db, roomID)
		if !ok {
			return
		}

		if _, err := db.Exec("DELETE FROM installation_charges WHERE id = $1", id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		totals, err := recomputeQuotationTotals(c, db, quotationID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recompute totals", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Installation charge deleted", "totals": totals})
	}
}
