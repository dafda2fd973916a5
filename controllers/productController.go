package controllers

import (
	"context"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/henuka/imitations-api/config"
	"github.com/henuka/imitations-api/initializers"
	"github.com/henuka/imitations-api/models"
	"github.com/henuka/imitations-api/services"
)

func parseUintParam(ctx *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(value), true
}

func CreateProduct(ctx *gin.Context) {
	var product models.Product
	if err := ctx.ShouldBindJSON(&product); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := productService.CreateProduct(&product); err != nil {
		handleServiceError(ctx, "create product", err)
		return
	}

	ctx.JSON(http.StatusCreated, product)
}

func UpdateProduct(ctx *gin.Context) {
	productID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	var details models.Product
	if err := ctx.ShouldBindJSON(&details); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := productService.UpdateProduct(productID, &details)
	if err != nil {
		handleServiceError(ctx, "update product", err)
		return
	}

	ctx.JSON(http.StatusOK, product)
}

func DeleteProduct(ctx *gin.Context) {
	productID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	if err := productService.DeleteProduct(productID); err != nil {
		handleServiceError(ctx, "delete product", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Product deleted successfully."})
}

func GetProducts(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "15"))

	filter := services.ProductFilter{
		Search:   ctx.Query("search"),
		Category: ctx.Query("category"),
		Featured: ctx.Query("featured") == "true",
		Page:     page,
		Limit:    limit,
	}

	products, count, err := productService.GetProducts(filter)
	if err != nil {
		handleServiceError(ctx, "list products", err)
		return
	}

	totalPages := math.Ceil(float64(count) / float64(limit))
	ctx.JSON(http.StatusOK, gin.H{
		"products": products,
		"metadata": gin.H{
			"total":       count,
			"currentPage": page,
			"limit":       limit,
			"hasPrevPage": page > 1,
			"hasNextPage": int(totalPages) > page,
		},
	})
}

func GetProduct(ctx *gin.Context) {
	productID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	product, err := productService.GetProductByID(productID)
	if err != nil {
		handleServiceError(ctx, "get product", err)
		return
	}

	ctx.JSON(http.StatusOK, product)
}

func GetRelatedProducts(ctx *gin.Context) {
	productID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	product, err := productService.GetProductByID(productID)
	if err != nil {
		handleServiceError(ctx, "get product", err)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "4"))
	related, err := productService.GetRelatedProducts(product.Category, product.ID, limit)
	if err != nil {
		handleServiceError(ctx, "related products", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"products": related})
}

func GetRestockReport(ctx *gin.Context) {
	threshold, _ := strconv.Atoi(ctx.DefaultQuery("threshold", "5"))

	products, err := productService.GetProductsNeedingRestock(threshold)
	if err != nil {
		handleServiceError(ctx, "restock report", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"products": products, "threshold": threshold})
}

func getAWSUploader() (*manager.Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return manager.NewUploader(client), nil
}

// UploadProductImages stores uploaded images in S3 and records their public
// URLs against the product.
func UploadProductImages(ctx *gin.Context) {
	productID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	if _, err := productService.GetProductByID(productID); err != nil {
		handleServiceError(ctx, "upload product images", err)
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "invalid form data")
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "no files uploaded")
		return
	}

	uploader, err := getAWSUploader()
	if err != nil {
		log.Println("AWS config error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "failed to configure storage")
		return
	}

	var uploadedUrls []string
	var failedUploads []string

	for _, file := range files {
		f, openErr := file.Open()
		if openErr != nil {
			log.Printf("Error opening file %s: %v", file.Filename, openErr)
			failedUploads = append(failedUploads, file.Filename)
			continue
		}

		uniqueFilename := fmt.Sprintf("%d-%s-%s", productID, time.Now().Format("20060102150405"), file.Filename)

		result, uploadErr := uploader.Upload(context.TODO(), &s3.PutObjectInput{
			Bucket:      aws.String(config.AppEnv.S3Bucket),
			Key:         aws.String(uniqueFilename),
			Body:        f,
			ACL:         "public-read",
			ContentType: aws.String(file.Header.Get("Content-Type")),
		})
		f.Close()

		if uploadErr != nil {
			log.Printf("Error uploading file %s: %v", file.Filename, uploadErr)
			failedUploads = append(failedUploads, file.Filename)
			continue
		}

		uploadedUrls = append(uploadedUrls, result.Location)

		productImage := models.ProductImage{
			Url:       result.Location,
			ProductID: int(productID),
		}
		if err := initializers.DB.Create(&productImage).Error; err != nil {
			log.Printf("Error saving image to database: %v", err)
		}
	}

	response := gin.H{
		"message": "Files processed",
		"urls":    uploadedUrls,
	}
	if len(failedUploads) > 0 {
		response["failed"] = failedUploads
	}

	ctx.JSON(http.StatusOK, response)
}
