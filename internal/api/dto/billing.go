package dto

import "github.com/go-playground/validator/v10"

type CreateOrderRequest struct {
	PlanID     string `json:"plan_id" validate:"required"`
	CouponCode string `json:"coupon_code"`
}

type CreateFreeSubscriptionRequest struct {
	PlanID     string `json:"plan_id" validate:"required"`
	UserID     string `json:"user_id" validate:"required"`
	CouponCode string `json:"coupon_code" validate:"required"`
}

var Validate = validator.New()
