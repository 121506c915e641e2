package serverutils

func ErrorResponse(code int, message string) map[string]interface{} {
	return map[string]interface{}{
		"code":    code,
		"message": message,
	}
}

func SuccessResponse(data interface{}) map[string]interface{} {
	return map[string]interface{}{
		"code": 200,
		"data": data,
	}
}
