package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/coffee-order-app/models"
	"github.com/yeremiapane/coffee-order-app/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetAllProducts -> the browsable menu with variants
func (mc *MenuController) GetAllProducts(c *gin.Context) {
	var products []models.Product
	if err := mc.DB.Preload("Category").Preload("Variants").
		Where("available = ?", true).
		Find(&products).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of products", products)
}

// GetProductsByCategory -> menu filtered on ?category_id=
func (mc *MenuController) GetProductsByCategory(c *gin.Context) {
	categoryID, err := strconv.ParseUint(c.Query("category_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid category_id"))
		return
	}

	var products []models.Product
	if err := mc.DB.Preload("Variants").
		Where("category_id = ? AND available = ?", categoryID, true).
		Find(&products).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Products by category", products)
}

// GetAllCategories
func (mc *MenuController) GetAllCategories(c *gin.Context) {
	var categories []models.ProductCategory
	if err := mc.DB.Find(&categories).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of categories", categories)
}

// CreateProduct -> staff/admin add a menu item
func (mc *MenuController) CreateProduct(c *gin.Context) {
	if !isStaff(c) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	type variantReq struct {
		Name            string  `json:"name" binding:"required"`
		PriceAdjustment float64 `json:"price_adjustment"`
	}
	type request struct {
		CategoryID  uint         `json:"category_id" binding:"required"`
		Name        string       `json:"name" binding:"required"`
		Description string       `json:"description"`
		Price       float64      `json:"price" binding:"required,gt=0"`
		Variants    []variantReq `json:"variants"`
	}

	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	product := models.Product{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Available:   true,
	}
	for _, v := range req.Variants {
		product.Variants = append(product.Variants, models.ProductVariant{
			Name:            v.Name,
			PriceAdjustment: v.PriceAdjustment,
		})
	}

	if err := mc.DB.Create(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Product created", product)
}

// CreateCategory -> staff/admin
func (mc *MenuController) CreateCategory(c *gin.Context) {
	if !isStaff(c) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	category := models.ProductCategory{Name: req.Name}
	if err := mc.DB.Create(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}
