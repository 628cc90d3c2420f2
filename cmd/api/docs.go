package main

// @title           ERP Estoque API
// @version         1.0
// @description     API do livro de estoque multiempresa: empresas, filiais, itens e transações.
// @description     Toda movimentação de estoque gera uma transação imutável com número de referência.

// @contact.name   Equipe ERP Estoque

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Token de acesso JWT no formato "Bearer {token}"
